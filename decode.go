package rpk

import (
	"image"

	"github.com/quintopia/rpk/internal/container"
)

// imageSink adapts a codec.RowSink into an *image.NRGBA. It buffers decoded
// rows in the stream's native channel layout and assembles the final image
// once decoding finishes and the descriptor (and thus width/height) is
// known.
type imageSink struct {
	rows [][]byte
}

func (s *imageSink) EmitRow(buf []byte) error {
	row := make([]byte, len(buf))
	copy(row, buf)
	s.rows = append(s.rows, row)
	return nil
}

// build assembles the accumulated rows into an *image.NRGBA using desc's
// channel count to interpret each row's layout. A 3-channel stream's
// missing alpha byte is filled in as 255.
func (s *imageSink) build(desc container.Descriptor) *image.NRGBA {
	width, height := int(desc.Width), int(desc.Height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range s.rows {
		if y >= height {
			break
		}
		dst := img.Pix[y*img.Stride : y*img.Stride+4*width]
		if desc.Channels == 4 {
			copy(dst, row)
			continue
		}
		for x := 0; x < width; x++ {
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = row[3*x], row[3*x+1], row[3*x+2], 255
		}
	}
	return img
}
