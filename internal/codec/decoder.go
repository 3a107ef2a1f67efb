package codec

import (
	"bufio"
	"fmt"
	"io"

	"github.com/quintopia/rpk/internal/cache"
	"github.com/quintopia/rpk/internal/container"
	"github.com/quintopia/rpk/internal/pixel"
	"github.com/quintopia/rpk/internal/rpkerr"
)

// Decoder is the symmetric inverse of Encoder (spec §4.3): it dispatches
// on the opcode byte, expands run lengths, applies each RUN type's
// argument to the previous pixel, and keeps the same 128-slot cache in
// lockstep with the encoder's.
type Decoder struct {
	r        *bufio.Reader
	channels int
	cache    cache.Cache
	prev     pixel.Pixel

	// curKind/remaining hold the residual open run between DecodePixel
	// calls (spec §4.3: "between opcodes — a residual run (T, L_remaining)").
	curKind   kind
	remaining int
}

// NewDecoder creates a Decoder reading from r for a stream with the given
// channel count (3 or 4).
func NewDecoder(r io.Reader, channels int) *Decoder {
	return &Decoder{r: bufio.NewReader(r), channels: channels, prev: pixel.Previous, curKind: kindNone}
}

// DecodePixel produces the next output pixel, reading bytes from the
// stream as needed.
func (d *Decoder) DecodePixel() (pixel.Pixel, error) {
	if d.remaining > 0 {
		return d.continueRun()
	}

	op, err := d.readByte()
	if err != nil {
		return pixel.Pixel{}, err
	}

	if op&0x80 == 0 {
		p := d.cache.Lookup(op)
		d.prev = p
		return p, nil
	}

	k := kind((op >> 5) & 0x03)
	low5 := op & 0x1F
	if k == kind0 {
		length, err := d.decodeType0LengthFromStream(low5)
		if err != nil {
			return pixel.Pixel{}, err
		}
		d.curKind = kind0
		d.remaining = length
	} else {
		d.curKind = k
		d.remaining = int(low5) + 1
	}
	return d.continueRun()
}

// continueRun consumes one unit of the currently open run.
func (d *Decoder) continueRun() (pixel.Pixel, error) {
	q := d.prev
	var p pixel.Pixel

	switch d.curKind {
	case kind0:
		p = q
	case kind1:
		b, err := d.readByte()
		if err != nil {
			return pixel.Pixel{}, err
		}
		delta := pixel.Pixel{R: b >> 6 & 3, G: b >> 4 & 3, B: b >> 2 & 3, A: b & 3}
		if d.channels == 3 {
			delta.A = 0
		}
		p = q.XOR(delta)
	case kind2:
		b0, err := d.readByte()
		if err != nil {
			return pixel.Pixel{}, err
		}
		b1, err := d.readByte()
		if err != nil {
			return pixel.Pixel{}, err
		}
		delta := pixel.Pixel{
			R: b0 >> 3,
			G: (b0&0x07)<<3 | b1>>5,
			B: b1 & 0x1F,
			A: 0,
		}
		p = q.XOR(delta)
	case kind3:
		var buf [4]byte
		if err := d.readFull(buf[:d.channels]); err != nil {
			return pixel.Pixel{}, err
		}
		p.R, p.G, p.B = buf[0], buf[1], buf[2]
		if d.channels == 4 {
			p.A = buf[3]
		} else {
			p.A = q.A
		}
	}

	d.remaining--
	if d.curKind != kind0 {
		d.cache.Set(pixel.Hash(p), p)
	}
	d.prev = p
	return p, nil
}

// decodeType0LengthFromStream reads however many trailing length bytes
// low5's tier calls for and reconstructs the full run length.
func (d *Decoder) decodeType0LengthFromStream(low5 uint8) (int, error) {
	var extra [2]byte
	n := type0LengthTier(low5)
	if err := d.readFull(extra[:n]); err != nil {
		return 0, err
	}
	return decodeType0Length(low5, extra[:n]), nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("rpk: %w", rpkerr.ErrTruncated)
		}
		return 0, fmt.Errorf("rpk: reading bitstream: %w: %w", err, rpkerr.ErrIO)
	}
	return b, nil
}

func (d *Decoder) readFull(buf []byte) error {
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("rpk: %w", rpkerr.ErrTruncated)
		}
		return fmt.Errorf("rpk: reading bitstream: %w: %w", err, rpkerr.ErrIO)
	}
	return nil
}

// DecodeRow decodes one row into buf (len(buf) == channels*width).
func (d *Decoder) DecodeRow(buf []byte) error {
	width := len(buf) / d.channels
	for i := 0; i < width; i++ {
		p, err := d.DecodePixel()
		if err != nil {
			return err
		}
		off := i * d.channels
		buf[off], buf[off+1], buf[off+2] = p.R, p.G, p.B
		if d.channels == 4 {
			buf[off+3] = p.A
		}
	}
	return nil
}

// DecodeImage reads a full framed RPK bitstream from r, pushing each
// decoded row to sink. It returns the parsed descriptor alongside any
// error. A rpkerr.ErrNoFooter result is warning-level: every row has
// already been pushed to sink by the time the footer is checked.
func DecodeImage(r io.Reader, sink RowSink) (container.Descriptor, error) {
	desc, err := container.ReadHeader(r)
	if err != nil {
		return desc, err
	}

	dec := NewDecoder(r, int(desc.Channels))
	row := make([]byte, int(desc.Channels)*int(desc.Width))
	for y := uint32(0); y < desc.Height; y++ {
		if err := dec.DecodeRow(row); err != nil {
			return desc, err
		}
		if err := sink.EmitRow(row); err != nil {
			return desc, fmt.Errorf("rpk: emitting row %d: %w: %w", y, err, rpkerr.ErrSource)
		}
	}

	if err := container.ReadFooter(dec.r); err != nil {
		return desc, err
	}
	return desc, nil
}
