package rpk_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/quintopia/rpk"
)

func roundTrip(t *testing.T, img *image.NRGBA, opts *rpk.EncoderOptions) image.Image {
	t.Helper()
	var buf bytes.Buffer
	if err := rpk.Encode(&buf, img, opts); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := rpk.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func requirePixelEqual(t *testing.T, want *image.NRGBA, got image.Image) {
	t.Helper()
	b := want.Bounds()
	if got.Bounds() != b {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			wr, wg, wb, wa := want.At(x, y).RGBA()
			gr, gg, gb, ga := got.At(x, y).RGBA()
			if wr != gr || wg != gg || wb != gb || wa != ga {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestRoundTripSinglePixelEachChannelCount(t *testing.T) {
	for _, channels := range []uint8{3, 4} {
		img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		img.SetNRGBA(0, 0, color.NRGBA{R: 12, G: 34, B: 56, A: 255})
		got := roundTrip(t, img, &rpk.EncoderOptions{Channels: channels})
		requirePixelEqual(t, img, got)
	}
}

func TestRoundTripSinglePixelZeroAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{})
	got := roundTrip(t, img, &rpk.EncoderOptions{Channels: 4})
	requirePixelEqual(t, img, got)
}

// TestRoundTripOneLSBDelta round-trips a row whose red channel alternates
// by one LSB, so the encoder extends type-1 runs through pixels that are
// also cache hits (Rule A). Only pixel equality is checked here; the opcode
// structure of Rule A is checked in internal/codec.
func TestRoundTripOneLSBDelta(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 1))
	base := color.NRGBA{R: 50, G: 50, B: 50, A: 255}
	img.SetNRGBA(0, 0, base)
	for x := 1; x < 40; x++ {
		prev := img.NRGBAAt(x-1, 0)
		img.SetNRGBA(x, 0, color.NRGBA{R: prev.R ^ 1, G: prev.G, B: prev.B, A: prev.A})
	}
	// Overwrite pixel 20 with the value of pixel 5. That value also equals
	// pixels 19 and 21, so the row gets a short identical-pixel run in the
	// middle of the type-1 stretch.
	img.SetNRGBA(20, 0, img.NRGBAAt(5, 0))

	got := roundTrip(t, img, &rpk.EncoderOptions{Channels: 4})
	requirePixelEqual(t, img, got)
}

func TestRoundTripGradientAndFlatRegions(t *testing.T) {
	const w, h = 64, 17
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x < w/3:
				img.SetNRGBA(x, y, color.NRGBA{R: 8, G: 8, B: 8, A: 255})
			case x < 2*w/3:
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 5), B: uint8(x + y), A: 255})
			default:
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 2 * 255), G: uint8(y % 2 * 255), B: 0, A: uint8(200 + x%50)})
			}
		}
	}
	got := roundTrip(t, img, nil)
	requirePixelEqual(t, img, got)
}

func TestEncodeRejectsZeroArea(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 5))
	var buf bytes.Buffer
	err := rpk.Encode(&buf, img, nil)
	if !errors.Is(err, rpk.ErrBadHeader) {
		t.Errorf("Encode on zero-width image = %v, want rpk.ErrBadHeader", err)
	}
}

func TestDecodeFooterOnlyFileIsBadHeader(t *testing.T) {
	_, err := rpk.Decode(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 1}))
	if !errors.Is(err, rpk.ErrBadHeader) {
		t.Errorf("Decode on a footer-only file = %v, want rpk.ErrBadHeader", err)
	}
}

func TestChannelInferenceFromAlpha(t *testing.T) {
	opaque := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		opaque.SetNRGBA(i%2, i/2, color.NRGBA{R: uint8(i), A: 255})
	}
	var buf bytes.Buffer
	if err := rpk.Encode(&buf, opaque, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	feat, err := rpk.GetFeatures(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("GetFeatures: %v", err)
	}
	if feat.HasAlpha {
		t.Errorf("fully opaque image encoded with HasAlpha=true, want channels=3")
	}
}
