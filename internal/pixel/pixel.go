// Package pixel implements the RPK pixel model: four 8-bit channels with
// byte-field access, XOR, and the cache hash function.
package pixel

// Pixel holds one RGBA color sample. Two pixels are equal when all four
// channels match, which Go's native struct equality already gives us.
type Pixel struct {
	R, G, B, A uint8
}

// Previous is the previous-pixel register's initial value (0,0,0,255),
// used by both encoder and decoder at stream start.
var Previous = Pixel{A: 255}

// XOR returns the per-channel XOR of p and q, used as the diff reference
// for RUN types 0/1/2 and as the argument for RUN types 1/2.
func (p Pixel) XOR(q Pixel) Pixel {
	return Pixel{p.R ^ q.R, p.G ^ q.G, p.B ^ q.B, p.A ^ q.A}
}

// fitsMask reports whether every one-bit of p has a corresponding zero bit
// in mask, i.e. p&mask == 0.
func fitsMask(p Pixel, mask Pixel) bool {
	return p.R&mask.R == 0 && p.G&mask.G == 0 && p.B&mask.B == 0 && p.A&mask.A == 0
}

// smallDiffMask is 0xFCFCFCFC split into per-channel bytes: a diff fits a
// RUN type 1 arg only if the top 6 bits of every channel are zero.
var smallDiffMask = Pixel{R: 0xFC, G: 0xFC, B: 0xFC, A: 0xFC}

// mediumDiffMask gates RUN type 2: red and blue get 5 low bits, green gets
// 6, and alpha must be exactly zero (type 2 never perturbs alpha).
var mediumDiffMask = Pixel{R: 0xE0, G: 0xC0, B: 0xE0, A: 0xFF}

// IsSmallDiff reports whether d (a XOR of two pixels) is representable as
// a RUN type 1 argument byte.
func IsSmallDiff(d Pixel) bool { return fitsMask(d, smallDiffMask) }

// IsMediumDiff reports whether d is representable as a RUN type 2 argument.
func IsMediumDiff(d Pixel) bool { return fitsMask(d, mediumDiffMask) }

// Hash computes the cache slot for p: (((88^r)*13^g)*13^b)*13^a, masked to
// 0x7F. This function is normative; any deviation breaks interoperability
// with other RPK implementations.
func Hash(p Pixel) uint8 {
	h := uint32(88) ^ uint32(p.R)
	h = h*13 ^ uint32(p.G)
	h = h*13 ^ uint32(p.B)
	h = h*13 ^ uint32(p.A)
	return uint8(h & 0x7F)
}
