// Package codec implements the RPK run-selection state machine: the
// encoder (§4.2), the decoder (§4.3), and the row driver (§6) that pulls
// pixels from a RowSource or pushes them to a RowSink.
//
// There is no teacher analogue for this state machine — VP8L compresses
// with backward references and Huffman coding, not run classification —
// so this package is built directly from original_source/rpk.h, restructured
// per spec Design Note §9 into an explicit classification order with no
// goto, the way github.com/deepteams/webp's own decoder state machines
// (internal/lossy/decode_mb.go, internal/lossless/decode_image.go) dispatch
// on an explicit tag rather than jumping into shared code.
package codec

// kind identifies which of the five run states is active.
type kind int8

const (
	kindNone kind = -1
	kind0    kind = 0 // identical-pixel run
	kind1    kind = 1 // 2-bit XOR delta per channel
	kind2    kind = 2 // 5-6-5 XOR delta, alpha unchanged
	kind3    kind = 3 // raw pixel literal
)

// maxLength returns the largest run length representable by k.
func (k kind) maxLength() int {
	if k == kind0 {
		return maxType0Length
	}
	return 32
}

// argBytesPerPixel returns k(type, channels) from spec §4.1: the number of
// argument bytes each pixel in the run contributes.
func argBytesPerPixel(k kind, channels int) int {
	switch k {
	case kind1:
		return 1
	case kind2:
		return 2
	case kind3:
		return channels
	default:
		return 0
	}
}

// maxArgBytes is the largest argument buffer any run can need: 32 pixels
// at up to 4 bytes each (type 3, 4-channel). Spec §5: "the argument buffer
// is bounded by 32*channels = 128 bytes."
const maxArgBytes = 32 * 4

// maxType0Length is 2^19 + 2048 + 16, the largest representable type-0 run.
const maxType0Length = 1<<19 + 2048 + 16

// runState is the tagged variant over {none, type0, type1, type2, type3}
// described in spec §3 ("Current run state") and §9 ("the run state is a
// tagged variant"). It is held by value inside Encoder; reset puts it in the
// post-flush state (kindNone, length 0). The zero value has k == kind0, not
// kindNone, so NewEncoder calls reset before first use.
type runState struct {
	k      kind
	length int
	arg    [maxArgBytes]byte
	argLen int
}

func (r *runState) reset() {
	r.k = kindNone
	r.length = 0
	r.argLen = 0
}

// appendArg appends b to the run's argument buffer.
func (r *runState) appendArg(b ...byte) {
	r.argLen += copy(r.arg[r.argLen:], b)
}

// packRunOpcode builds the RUN opcode byte for (k, low5): 1TT LLLLL.
func packRunOpcode(k kind, low5 uint8) byte {
	return 0x80 | byte(k)<<5 | low5&0x1F
}

// encodeType0Length splits a type-0 run length into an opcode byte and 0-2
// trailing length bytes, per the closed-form tiers derived in SPEC_FULL.md
// §4.1 from the original's subtract-bias sequence (spec Design Note §9).
func encodeType0Length(length int) (opcode byte, extra []byte) {
	switch {
	case length <= 16:
		return packRunOpcode(kind0, uint8(length-1)), nil
	case length <= 2064:
		rem := length - 17
		return packRunOpcode(kind0, 0x10|uint8(rem>>8)), []byte{byte(rem)}
	default:
		rem := length - 2065
		return packRunOpcode(kind0, 0x18|uint8(rem>>16)), []byte{byte(rem >> 8), byte(rem)}
	}
}

// type0LengthTier classifies the opcode's low 5 bits into how many
// trailing length bytes follow: 0, 1, or 2.
func type0LengthTier(low5 uint8) int {
	switch {
	case low5&0x10 == 0:
		return 0
	case low5&0x08 == 0:
		return 1
	default:
		return 2
	}
}

// decodeType0Length reconstructs a type-0 run length from the opcode's low
// 5 bits and however many trailing bytes its tier calls for.
func decodeType0Length(low5 uint8, extra []byte) int {
	switch type0LengthTier(low5) {
	case 0:
		return int(low5) + 1
	case 1:
		rem := int(low5&0x07)<<8 | int(extra[0])
		return rem + 17
	default:
		rem := int(low5&0x07)<<16 | int(extra[0])<<8 | int(extra[1])
		return rem + 2065
	}
}
