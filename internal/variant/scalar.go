package variant

import (
	"math"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

func init() {
	registerDecoder(KindNil, decodeNil)
	registerDecoder(KindBool, decodeBool)
	registerDecoder(KindInt, decodeInt)
	registerDecoder(KindFloat, decodeFloat)
	registerDecoder(KindRID, decodeRID)
}

// Nil is the empty variant.
type Nil struct{}

func (Nil) Kind() Kind { return KindNil }

func (Nil) Encode() ([]byte, error) {
	return wire.AppendU32(nil, uint32(KindNil)), nil
}

func decodeNil(_ uint32, _ []byte) (Variant, int, error) {
	return Nil{}, 0, nil
}

// Bool is a boolean variant, header-encoded as a full 4-byte word.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

func (b Bool) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindBool))
	if b {
		return wire.AppendU32(out, 1), nil
	}
	return wire.AppendU32(out, 0), nil
}

func decodeBool(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "bool variant"); err != nil {
		return nil, 0, err
	}
	return Bool(wire.U32(body[:4]) != 0), 4, nil
}

// Int is a 64-bit integer, header-encoded in 32 bits unless the value
// overflows int32.
type Int int64

func (Int) Kind() Kind { return KindInt }

func (i Int) Encode() ([]byte, error) {
	header := uint32(KindInt)
	if i < math.MinInt32 || i > math.MaxInt32 {
		header |= header64Flag
	}
	out := wire.AppendU32(nil, header)
	if header&header64Flag != 0 {
		return wire.AppendU64(out, uint64(i)), nil
	}
	return wire.AppendU32(out, uint32(int32(i))), nil
}

func decodeInt(header uint32, body []byte) (Variant, int, error) {
	if header&header64Flag != 0 {
		if err := wire.Need(body, 8, "64-bit int variant"); err != nil {
			return nil, 0, err
		}
		return Int(int64(wire.U64(body[:8]))), 8, nil
	}
	if err := wire.Need(body, 4, "32-bit int variant"); err != nil {
		return nil, 0, err
	}
	return Int(int64(int32(wire.U32(body[:4])))), 4, nil
}

// Float is a 64-bit float, header-encoded in 32 bits unless the value
// fails to round-trip through float32.
type Float float64

func (Float) Kind() Kind { return KindFloat }

func (f Float) Encode() ([]byte, error) {
	header := uint32(KindFloat)
	if need64(float64(f)) {
		header |= header64Flag
	}
	out := wire.AppendU32(nil, header)
	if header&header64Flag != 0 {
		return wire.AppendU64(out, math.Float64bits(float64(f))), nil
	}
	return wire.AppendU32(out, math.Float32bits(float32(f))), nil
}

func decodeFloat(header uint32, body []byte) (Variant, int, error) {
	if header&header64Flag != 0 {
		if err := wire.Need(body, 8, "64-bit float variant"); err != nil {
			return nil, 0, err
		}
		return Float(math.Float64frombits(wire.U64(body[:8]))), 8, nil
	}
	if err := wire.Need(body, 4, "32-bit float variant"); err != nil {
		return nil, 0, err
	}
	return Float(float64(math.Float32frombits(wire.U32(body[:4])))), 4, nil
}

// RID is an opaque 64-bit resource identifier.
type RID uint64

func (RID) Kind() Kind { return KindRID }

func (r RID) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindRID))
	return wire.AppendU64(out, uint64(r)), nil
}

func decodeRID(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 8, "rid variant"); err != nil {
		return nil, 0, err
	}
	return RID(wire.U64(body[:8])), 8, nil
}
