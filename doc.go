// Package rpk provides a pure Go encoder and decoder for the RPK (Rapid
// Picture Kompressor) lossless byte-oriented image format.
//
// RPK is a simple streaming codec: a fixed-size header and footer frame a
// row-major body made of two opcodes, INDEX (cache-slot reference) and RUN
// (one of four run types — identical-pixel, small XOR delta, medium XOR
// delta, or raw literal). The format is designed for O(1) working memory
// per image, independent of width or height.
//
// Basic usage for decoding:
//
//	img, err := rpk.Decode(reader)
//
// Basic usage for encoding:
//
//	err := rpk.Encode(writer, img, nil)
package rpk
