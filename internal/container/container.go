// Package container implements RPK's fixed-size header and footer framing.
//
// The shape of this package — explicit parse functions returning a typed
// header plus a sentinel error, separate from the RUN/INDEX bitstream
// itself — is grounded on internal/container/riff.go's ParseRIFFHeader and
// ReadChunkHeader, generalized from RIFF's variable-length chunk framing
// down to RPK's fixed 13-byte header and 8-byte footer.
package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quintopia/rpk/internal/rpkerr"
)

// HeaderSize is the fixed size, in bytes, of the RPK header.
const HeaderSize = 13

// FooterSize is the size, in bytes, that a conformant encoder writes for
// the footer. Decoders must also accept a single terminating 0x01 byte
// (spec §9 Open Question: the footer is a presence marker only).
const FooterSize = 8

// magic is the fixed 3-byte signature at the start of every RPK file.
var magic = [3]byte{'r', 'p', 'k'}

// Descriptor is the RPK image descriptor: width, height, channel count,
// and colorspace byte, exactly as carried on the wire.
type Descriptor struct {
	Width, Height        uint32
	Channels, Colorspace uint8
}

// WriteHeader writes the 13-byte RPK header for d to w.
func WriteHeader(w io.Writer, d Descriptor) error {
	var buf [HeaderSize]byte
	copy(buf[0:3], magic[:])
	binary.BigEndian.PutUint32(buf[3:7], d.Width)
	binary.BigEndian.PutUint32(buf[7:11], d.Height)
	buf[11] = d.Channels
	buf[12] = d.Colorspace
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("rpk: writing header: %w: %w", err, rpkerr.ErrIO)
	}
	return nil
}

// ReadHeader reads and validates the 13-byte RPK header from r.
// It rejects a missing magic, channels outside {3,4}, and zero-area
// images with rpkerr.ErrBadHeader (spec §4.4 "Rejection on read").
func ReadHeader(r io.Reader) (Descriptor, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Descriptor{}, fmt.Errorf("rpk: reading header: %w", rpkerr.ErrBadHeader)
		}
		return Descriptor{}, fmt.Errorf("rpk: reading header: %w: %w", err, rpkerr.ErrIO)
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] {
		return Descriptor{}, fmt.Errorf("rpk: bad magic: %w", rpkerr.ErrBadHeader)
	}
	d := Descriptor{
		Width:      binary.BigEndian.Uint32(buf[3:7]),
		Height:     binary.BigEndian.Uint32(buf[7:11]),
		Channels:   buf[11],
		Colorspace: buf[12],
	}
	if d.Channels != 3 && d.Channels != 4 {
		return Descriptor{}, fmt.Errorf("rpk: channels %d: %w", d.Channels, rpkerr.ErrBadHeader)
	}
	if d.Width == 0 || d.Height == 0 {
		return Descriptor{}, fmt.Errorf("rpk: zero-area image: %w", rpkerr.ErrBadHeader)
	}
	return d, nil
}

// footerBytes is the 8-byte constant a conformant encoder emits after the
// last flush: 00 00 00 00 00 00 00 01 (spec §4.4).
var footerBytes = [FooterSize]byte{0, 0, 0, 0, 0, 0, 0, 1}

// WriteFooter writes the full 8-byte footer constant to w.
func WriteFooter(w io.Writer) error {
	if _, err := w.Write(footerBytes[:]); err != nil {
		return fmt.Errorf("rpk: writing footer: %w: %w", err, rpkerr.ErrIO)
	}
	return nil
}

// ReadFooter reads the trailing footer from r. It accepts either the full
// 8-byte constant or a lone terminating 0x01 byte (spec §9: "tolerate
// either a single terminating 0x01 byte or the full eight bytes"). Any
// other content, or EOF before a single byte is read, yields
// rpkerr.ErrNoFooter. This is a warning-level condition; callers that
// already decoded all pixels may still treat the image as valid.
func ReadFooter(r io.Reader) error {
	var buf [FooterSize]byte
	n, err := io.ReadFull(r, buf[:])
	switch {
	case n == FooterSize && err == nil:
		if buf == footerBytes {
			return nil
		}
		return rpkerr.ErrNoFooter
	case n == 1 && buf[0] == 1:
		return nil
	default:
		return rpkerr.ErrNoFooter
	}
}
