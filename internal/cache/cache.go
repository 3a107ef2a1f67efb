// Package cache implements the RPK rolling color cache: a fixed 128-slot
// table of recently seen pixels, addressed by pixel.Hash.
//
// This generalizes the WebP VP8L color cache (internal/lossless.ColorCache
// in the teacher package, which hashes an ARGB uint32 via a multiplicative
// constant into a table of 2^hashBits entries) to RPK's fixed 128-slot,
// FNV-style hash.
package cache

import "github.com/quintopia/rpk/internal/pixel"

// Size is the fixed number of cache slots (spec §3: 128 pixel slots).
const Size = 128

// Cache is a 128-slot rolling pixel cache. The zero value is ready to use:
// every slot starts at (0,0,0,0), matching the spec's init requirement.
type Cache struct {
	slots [Size]pixel.Pixel
}

// Lookup returns the pixel stored at cache slot h.
func (c *Cache) Lookup(h uint8) pixel.Pixel {
	return c.slots[h]
}

// Set stores p at cache slot h, overwriting whatever was there.
func (c *Cache) Set(h uint8, p pixel.Pixel) {
	c.slots[h] = p
}

// Contains reports whether p is already present at its own hash slot,
// returning that slot alongside the boolean so callers don't recompute
// pixel.Hash(p) twice.
func (c *Cache) Contains(p pixel.Pixel) (h uint8, ok bool) {
	h = pixel.Hash(p)
	return h, c.slots[h] == p
}

// Reset clears every slot back to (0,0,0,0), for reuse across images.
func (c *Cache) Reset() {
	*c = Cache{}
}
