package rpk

import (
	"image"
	"io"
)

// imageSource adapts an image.Image into a codec.RowSource, feeding one
// top-to-bottom row of 4-channel RGBA8 at a time without ever materializing
// the whole image as a byte buffer.
type imageSource struct {
	img    image.Image
	bounds image.Rectangle
	y      int
}

func (s *imageSource) NextRow(buf []byte) error {
	if s.y >= s.bounds.Dy() {
		return io.EOF
	}
	row := s.bounds.Min.Y + s.y

	// Fast path: *image.NRGBA already stores straight (non-premultiplied)
	// 8-bit samples, so they can be copied directly with no precision loss
	// from a premultiply/unpremultiply round trip.
	if nrgba, ok := s.img.(*image.NRGBA); ok {
		off := nrgba.PixOffset(s.bounds.Min.X, row)
		copy(buf, nrgba.Pix[off:off+4*s.bounds.Dx()])
		s.y++
		return nil
	}

	off := 0
	for x := s.bounds.Min.X; x < s.bounds.Max.X; x++ {
		r, g, b, a := s.img.At(x, row).RGBA()
		// RGBA() returns alpha-premultiplied 16-bit samples; un-premultiply
		// and truncate to 8 bits so the stored pixel matches what a
		// straight NRGBA reader would see.
		buf[off], buf[off+1], buf[off+2], buf[off+3] = unpremultiply(r, g, b, a)
		off += 4
	}
	s.y++
	return nil
}

// unpremultiply converts a color.Color's premultiplied 16-bit RGBA samples
// into 8-bit non-premultiplied (straight-alpha) channel bytes.
func unpremultiply(r, g, b, a uint32) (byte, byte, byte, byte) {
	if a == 0 {
		return 0, 0, 0, 0
	}
	r8 := byte((r * 0xFF) / a)
	g8 := byte((g * 0xFF) / a)
	b8 := byte((b * 0xFF) / a)
	a8 := byte(a >> 8)
	return r8, g8, b8, a8
}

// imageHasAlpha reports whether any pixel in img has alpha != 255 (fully
// opaque images are encoded with channels=3 by default).
func imageHasAlpha(img image.Image) bool {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			off := y * nrgba.Stride
			for x := 0; x < b.Dx(); x++ {
				if nrgba.Pix[off+4*x+3] != 0xFF {
					return true
				}
			}
		}
		return false
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a>>8 != 0xFF {
				return true
			}
		}
	}
	return false
}
