package variant

import (
	"math"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// Compact-form constants, replicated from multiplayer_api.cpp.
const (
	compactTypeMask  = 0x3F
	compactEmodeMask = 0xC0
	compactBoolMask  = 0x80
)

// DecodeCompact is the dispatcher used inside RPC argument lists: it
// tries the one-byte compact form for Bool and Int first, and falls
// through to the header-framed form (Decode) for every other kind.
func DecodeCompact(b []byte) (Variant, int, error) {
	if err := wire.Need(b, 1, "compact variant"); err != nil {
		return nil, 0, err
	}

	switch Kind(b[0] & compactTypeMask) {
	case KindBool:
		return decodeCompactBool(b)
	case KindInt:
		return decodeCompactInt(b)
	}

	return Decode(b)
}

// EncodeCompact writes v in its compact one-byte form if v is a Bool or
// Int (choosing the narrowest width that round-trips), or falls back to
// the header-framed Encode otherwise.
func EncodeCompact(v Variant) ([]byte, error) {
	switch val := v.(type) {
	case Bool:
		b := byte(KindBool)
		if val {
			b |= compactBoolMask
		}
		return []byte{b}, nil
	case Int:
		return encodeCompactInt(val)
	}
	return v.Encode()
}

func decodeCompactBool(b []byte) (Variant, int, error) {
	if Kind(b[0]&compactTypeMask) != KindBool {
		return nil, 0, wire.NewError(wire.BadTag, "invalid header for compact bool variant")
	}
	return Bool(b[0]&compactBoolMask != 0), 1, nil
}

// compact int widths, selected by the two mode bits (6:7 of byte 0).
const (
	intMode8 = iota << 6
	intMode16
	intMode32
	intMode64
)

func decodeCompactInt(b []byte) (Variant, int, error) {
	mode := b[0] & compactEmodeMask
	switch mode {
	case intMode8:
		if err := wire.Need(b, 2, "compact 8-bit int"); err != nil {
			return nil, 0, err
		}
		return Int(int64(int8(b[1]))), 2, nil
	case intMode16:
		if err := wire.Need(b, 3, "compact 16-bit int"); err != nil {
			return nil, 0, err
		}
		return Int(int64(int16(wire.U16(b[1:3])))), 3, nil
	case intMode32:
		if err := wire.Need(b, 5, "compact 32-bit int"); err != nil {
			return nil, 0, err
		}
		return Int(int64(int32(wire.U32(b[1:5])))), 5, nil
	default:
		if err := wire.Need(b, 9, "compact 64-bit int"); err != nil {
			return nil, 0, err
		}
		return Int(int64(wire.U64(b[1:9]))), 9, nil
	}
}

func encodeCompactInt(v Int) ([]byte, error) {
	n := int64(v)
	switch {
	case n >= math.MinInt8 && n <= math.MaxInt8:
		return []byte{byte(KindInt) | intMode8, byte(int8(n))}, nil
	case n >= math.MinInt16 && n <= math.MaxInt16:
		out := []byte{byte(KindInt) | intMode16}
		return wire.AppendU16(out, uint16(int16(n))), nil
	case n >= math.MinInt32 && n <= math.MaxInt32:
		out := []byte{byte(KindInt) | intMode32}
		return wire.AppendU32(out, uint32(int32(n))), nil
	default:
		out := []byte{byte(KindInt) | intMode64}
		return wire.AppendU64(out, uint64(n)), nil
	}
}
