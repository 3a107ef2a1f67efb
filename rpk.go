package rpk

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/quintopia/rpk/internal/codec"
	"github.com/quintopia/rpk/internal/container"
	"github.com/quintopia/rpk/internal/rpkerr"
)

func init() {
	image.RegisterFormat("rpk", "rpk??????????", Decode, DecodeConfig)
}

// Errors returned by the decoder and encoder. These alias the sentinels in
// internal/rpkerr so callers can errors.Is against a single stable set of
// values without reaching into an internal package.
var (
	ErrIO        = rpkerr.ErrIO
	ErrBadHeader = rpkerr.ErrBadHeader
	ErrTruncated = rpkerr.ErrTruncated
	ErrNoFooter  = rpkerr.ErrNoFooter
	ErrSource    = rpkerr.ErrSource
)

// Features describes an RPK file's properties, as returned by [GetFeatures].
type Features struct {
	Width      int
	Height     int
	HasAlpha   bool
	Colorspace uint8
}

// readAll reads all data from r, sizing the allocation up front when r
// reports its own length.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads an RPK image from r and returns it as an *image.NRGBA.
//
// A stream with a missing or malformed footer still decodes successfully:
// every row has already been recovered by the time the footer is checked,
// so ErrNoFooter is treated as a non-fatal condition here (spec §7).
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("rpk: reading data: %w", err)
	}
	sink := &imageSink{}
	desc, err := codec.DecodeImage(bytes.NewReader(data), sink)
	if err != nil && !errors.Is(err, rpkerr.ErrNoFooter) {
		return nil, err
	}
	return sink.build(desc), nil
}

// DecodeConfig returns the color model and dimensions of an RPK image
// without decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("rpk: reading data: %w", err)
	}
	desc, err := container.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(desc.Width),
		Height:     int(desc.Height),
	}, nil
}

// GetFeatures reads RPK features (dimensions, channel count, colorspace)
// by parsing only the fixed 13-byte header. The whole input is read into
// memory, but the bitstream body is not decoded — much cheaper than a full
// [Decode].
func GetFeatures(r io.Reader) (*Features, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("rpk: reading data: %w", err)
	}
	desc, err := container.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Features{
		Width:      int(desc.Width),
		Height:     int(desc.Height),
		HasAlpha:   desc.Channels == 4,
		Colorspace: desc.Colorspace,
	}, nil
}

// EncoderOptions controls RPK encoding parameters.
type EncoderOptions struct {
	// Channels forces the output channel count to 3 or 4. Zero means
	// "infer from the image": 3 when every pixel's alpha is 255, 4
	// otherwise.
	Channels uint8

	// Colorspace is passed through verbatim into the header. Its zero
	// value, 0 (sRGB with linear alpha), is what Encode writes when no
	// options are given; any other value is written unchanged.
	Colorspace uint8
}

// Encode writes img to w in RPK format.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("rpk: zero-area image: %w", rpkerr.ErrBadHeader)
	}

	channels := opts.Channels
	if channels == 0 {
		channels = 4
		if !imageHasAlpha(img) {
			channels = 3
		}
	}
	if channels != 3 && channels != 4 {
		return fmt.Errorf("rpk: channels %d: %w", channels, rpkerr.ErrBadHeader)
	}

	desc := container.Descriptor{
		Width:      uint32(width),
		Height:     uint32(height),
		Channels:   channels,
		Colorspace: opts.Colorspace,
	}
	return codec.EncodeImage(w, desc, &imageSource{img: img, bounds: b})
}
