// Package rpkerr holds the sentinel errors shared by every layer of the
// codec (container framing, the run-selection state machine, and the root
// package's image.Image wrapper), so a caller can errors.Is against the
// same value regardless of which layer surfaced it.
//
// The teacher defines its sentinels locally per package (internal/container's
// ErrInvalidRIFF, internal/lossless's ErrBadSignature, and so on) because
// each WebP sub-format's errors are meaningful only within that sub-format.
// RPK has a single, small error taxonomy that spans header, bitstream, and
// row-source layers (spec §7), so those five sentinels get one shared home
// instead of being redeclared per package.
package rpkerr

import "errors"

// Errors is the five-member taxonomy from spec §7.
var (
	// ErrIO means the underlying reader or writer failed.
	ErrIO = errors.New("rpk: io error")
	// ErrBadHeader means the magic was missing, channels were outside
	// {3,4}, or the image had zero width or height.
	ErrBadHeader = errors.New("rpk: bad header")
	// ErrTruncated means the byte source ended before width*height pixels
	// (or a run's argument bytes) were fully read.
	ErrTruncated = errors.New("rpk: truncated stream")
	// ErrNoFooter means all pixels decoded but the trailing footer was
	// absent or malformed. Warning-level: already-decoded pixels stand.
	ErrNoFooter = errors.New("rpk: missing or malformed footer")
	// ErrSource means the row source or row sink returned an error. On
	// encode this includes io.EOF before every row of the image was read.
	ErrSource = errors.New("rpk: row source error")
)
