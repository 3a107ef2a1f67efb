package codec

import (
	"fmt"
	"io"

	"github.com/quintopia/rpk/internal/cache"
	"github.com/quintopia/rpk/internal/container"
	"github.com/quintopia/rpk/internal/pixel"
	"github.com/quintopia/rpk/internal/rpkerr"
)

// RowSource supplies one row at a time to an encoder, always in 4-channel
// RGBA8 layout regardless of the stream's encoded channel count (spec §6).
// Rows arrive top-to-bottom. EncodeImage requests exactly Height rows; any
// error NextRow returns for one of them, io.EOF included, is reported as an
// upstream source failure (rpkerr.ErrSource).
type RowSource interface {
	NextRow(buf []byte) error
}

// RowSink receives one decoded row at a time, in the stream's native
// channel layout (spec §6).
type RowSink interface {
	EmitRow(buf []byte) error
}

// Encoder runs the RPK run-selection state machine (spec §4.2) over a
// sequence of pixels, writing opcodes and arguments to w as it goes.
//
// An Encoder owns exactly one cache, one previous-pixel register, and one
// run state — the entirety of its working memory besides one row buffer,
// per the O(1)-memory resource bound in spec §5.
type Encoder struct {
	w        io.Writer
	channels int
	cache    cache.Cache
	prev     pixel.Pixel
	run      runState
}

// NewEncoder creates an Encoder writing to w for an image with the given
// channel count (3 or 4). It does not write the container header; callers
// that want the full framed bitstream should use EncodeImage instead.
func NewEncoder(w io.Writer, channels int) *Encoder {
	e := &Encoder{w: w, channels: channels, prev: pixel.Previous}
	e.run.reset()
	return e
}

// EncodeRow encodes one row of 4-channel RGBA8 pixels (len(row) == 4*width).
func (e *Encoder) EncodeRow(row []byte) error {
	for off := 0; off+4 <= len(row); off += 4 {
		a := row[off+3]
		if e.channels == 3 {
			a = 255
		}
		if err := e.encodePixel(pixel.Pixel{R: row[off], G: row[off+1], B: row[off+2], A: a}); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any pending run. It must be called exactly once, after the
// last pixel, per spec §4.2 "End-of-image: after the last source pixel,
// flush once." The footer is written separately (see EncodeImage).
func (e *Encoder) Close() error {
	return e.flush()
}

// encodePixel implements spec §4.2's encoder state machine in the explicit
// classification order the spec calls for: (1) match, (2) type-1 inertia,
// (3) cache hit, (4) classify the diff. This mirrors the branching of
// original_source/rpk.h's rpk_encode, restructured per Design Note §9 to
// replace its goto with a straight-line sequence of guarded branches.
func (e *Encoder) encodePixel(p pixel.Pixel) error {
	q := e.prev
	e.prev = p

	if p == q {
		if e.run.k == kind0 && e.run.length < maxType0Length {
			e.run.length++
		} else {
			if err := e.flush(); err != nil {
				return err
			}
			e.run.k = kind0
			e.run.length = 1
		}
		return nil
	}

	d := p.XOR(q)

	// Rule A: an open type-1 run is never interrupted by a cache hit; the
	// hit is ignored and the run extended instead.
	if e.run.k == kind1 && e.run.length >= 1 && pixel.IsSmallDiff(d) {
		if err := e.appendRun(kind1, packType1Arg(d)); err != nil {
			return err
		}
		e.cache.Set(pixel.Hash(p), p)
		return nil
	}

	if h, ok := e.cache.Contains(p); ok {
		if err := e.flush(); err != nil {
			return err
		}
		return e.emitIndex(h)
	}

	switch {
	case pixel.IsSmallDiff(d) && e.run.k != kind2:
		// Rule B falls out of this guard: an open type-2 run never
		// demotes to type-1, because the kind2 case is excluded here and
		// handled by the medium-diff branch below instead.
		if err := e.appendRun(kind1, packType1Arg(d)); err != nil {
			return err
		}
	case pixel.IsMediumDiff(d):
		b0, b1 := packType2Arg(d)
		if err := e.appendRun(kind2, b0, b1); err != nil {
			return err
		}
	default:
		if err := e.appendRun(kind3, packType3Arg(p, e.channels)...); err != nil {
			return err
		}
	}
	e.cache.Set(pixel.Hash(p), p)
	return nil
}

// appendRun extends the run of type k with one pixel's argument bytes,
// flushing first if a different run is open or the current run of type k
// has already reached its maximum length (spec §4.2 step 5, and — for the
// Rule-A inertia path above — the same length cap applied uniformly so the
// emitted run never exceeds its 5-bit length field).
func (e *Encoder) appendRun(k kind, arg ...byte) error {
	if e.run.k != k || e.run.length == k.maxLength() {
		if err := e.flush(); err != nil {
			return err
		}
		e.run.k = k
	}
	e.run.appendArg(arg...)
	e.run.length++
	return nil
}

// flush emits the opcode byte for the current run (plus any buffered
// argument bytes for types 1/2/3), then resets the run state. A pending
// length of 0 means there is nothing to flush.
func (e *Encoder) flush() error {
	if e.run.length == 0 {
		return nil
	}
	if e.run.k == kind0 {
		opcode, extra := encodeType0Length(e.run.length)
		if err := e.writeBytes(append([]byte{opcode}, extra...)); err != nil {
			return err
		}
	} else {
		opcode := packRunOpcode(e.run.k, uint8(e.run.length-1))
		buf := make([]byte, 0, 1+e.run.argLen)
		buf = append(buf, opcode)
		buf = append(buf, e.run.arg[:e.run.argLen]...)
		if err := e.writeBytes(buf); err != nil {
			return err
		}
	}
	e.run.reset()
	return nil
}

// emitIndex writes a single INDEX opcode byte for cache slot h. Previous
// has already been set by encodePixel; the cache itself is untouched (it
// already holds p at slot h).
func (e *Encoder) emitIndex(h uint8) error {
	return e.writeBytes([]byte{h})
}

func (e *Encoder) writeBytes(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("rpk: writing bitstream: %w: %w", err, rpkerr.ErrIO)
	}
	return nil
}

// packType1Arg packs a small diff into one RUN type-1 argument byte:
// (dr<<6)|(dg<<4)|(db<<2)|da. d's top 6 bits per channel are guaranteed
// zero by pixel.IsSmallDiff.
func packType1Arg(d pixel.Pixel) byte {
	return d.R<<6 | d.G<<4 | d.B<<2 | d.A
}

// packType2Arg packs a medium diff into two RUN type-2 argument bytes,
// 5-6-5 bits for red/green/blue with alpha unperturbed.
func packType2Arg(d pixel.Pixel) (byte, byte) {
	b0 := d.R<<3 | d.G>>3
	b1 := d.G<<5 | d.B&0x1F
	return b0, b1
}

// packType3Arg returns the raw per-channel bytes of p: channels bytes,
// omitting alpha entirely for 3-channel streams (spec §4.1 type 3).
func packType3Arg(p pixel.Pixel, channels int) []byte {
	if channels == 3 {
		return []byte{p.R, p.G, p.B}
	}
	return []byte{p.R, p.G, p.B, p.A}
}

// EncodeImage writes the full framed RPK bitstream for a d.Width x
// d.Height image pulled row-by-row from src: header, pixel data, footer.
func EncodeImage(w io.Writer, d container.Descriptor, src RowSource) error {
	if err := container.WriteHeader(w, d); err != nil {
		return err
	}
	enc := NewEncoder(w, int(d.Channels))
	row := make([]byte, 4*int(d.Width))
	for y := uint32(0); y < d.Height; y++ {
		if err := src.NextRow(row); err != nil {
			return fmt.Errorf("rpk: reading row %d: %w: %w", y, err, rpkerr.ErrSource)
		}
		if err := enc.EncodeRow(row); err != nil {
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return container.WriteFooter(w)
}
