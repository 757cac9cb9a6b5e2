package variant

import (
	"math"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

func init() {
	registerDecoder(KindPackedByteArray, decodePackedByteArray)
	registerDecoder(KindPackedInt32Array, decodePackedInt32Array)
	registerDecoder(KindPackedInt64Array, decodePackedInt64Array)
	registerDecoder(KindPackedFloat32Array, decodePackedFloat32Array)
	registerDecoder(KindPackedFloat64Array, decodePackedFloat64Array)
	registerDecoder(KindPackedStringArray, decodePackedStringArray)
}

type PackedByteArray []byte

func (PackedByteArray) Kind() Kind { return KindPackedByteArray }
func (p PackedByteArray) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedByteArray))
	out = wire.AppendU32(out, uint32(len(p)))
	return append(out, p...), nil
}
func decodePackedByteArray(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedByteArray length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	if err := wire.Need(body, 4+count, "PackedByteArray data"); err != nil {
		return nil, 0, err
	}
	return PackedByteArray(append([]byte(nil), body[4:4+count]...)), 4 + count, nil
}

type PackedInt32Array []int32

func (PackedInt32Array) Kind() Kind { return KindPackedInt32Array }
func (p PackedInt32Array) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedInt32Array))
	out = wire.AppendU32(out, uint32(len(p)))
	for _, v := range p {
		out = wire.AppendU32(out, uint32(v))
	}
	return out, nil
}
func decodePackedInt32Array(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedInt32Array length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	if err := wire.Need(body, 4+4*count, "PackedInt32Array data"); err != nil {
		return nil, 0, err
	}
	out := make(PackedInt32Array, count)
	for i := 0; i < count; i++ {
		out[i] = int32(wire.U32(body[4+i*4 : 4+i*4+4]))
	}
	return out, 4 + 4*count, nil
}

type PackedInt64Array []int64

func (PackedInt64Array) Kind() Kind { return KindPackedInt64Array }
func (p PackedInt64Array) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedInt64Array))
	out = wire.AppendU32(out, uint32(len(p)))
	for _, v := range p {
		out = wire.AppendU64(out, uint64(v))
	}
	return out, nil
}
func decodePackedInt64Array(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedInt64Array length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	if err := wire.Need(body, 4+8*count, "PackedInt64Array data"); err != nil {
		return nil, 0, err
	}
	out := make(PackedInt64Array, count)
	for i := 0; i < count; i++ {
		out[i] = int64(wire.U64(body[4+i*8 : 4+i*8+8]))
	}
	return out, 4 + 8*count, nil
}

type PackedFloat32Array []float32

func (PackedFloat32Array) Kind() Kind { return KindPackedFloat32Array }
func (p PackedFloat32Array) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedFloat32Array))
	out = wire.AppendU32(out, uint32(len(p)))
	for _, v := range p {
		out = wire.AppendU32(out, math.Float32bits(v))
	}
	return out, nil
}
func decodePackedFloat32Array(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedFloat32Array length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	if err := wire.Need(body, 4+4*count, "PackedFloat32Array data"); err != nil {
		return nil, 0, err
	}
	out := make(PackedFloat32Array, count)
	for i := 0; i < count; i++ {
		out[i] = math.Float32frombits(wire.U32(body[4+i*4 : 4+i*4+4]))
	}
	return out, 4 + 4*count, nil
}

type PackedFloat64Array []float64

func (PackedFloat64Array) Kind() Kind { return KindPackedFloat64Array }
func (p PackedFloat64Array) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedFloat64Array))
	out = wire.AppendU32(out, uint32(len(p)))
	for _, v := range p {
		out = wire.AppendU64(out, math.Float64bits(v))
	}
	return out, nil
}
func decodePackedFloat64Array(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedFloat64Array length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	if err := wire.Need(body, 4+8*count, "PackedFloat64Array data"); err != nil {
		return nil, 0, err
	}
	out := make(PackedFloat64Array, count)
	for i := 0; i < count; i++ {
		out[i] = math.Float64frombits(wire.U64(body[4+i*8 : 4+i*8+8]))
	}
	return out, 4 + 8*count, nil
}

type PackedStringArray []string

func (PackedStringArray) Kind() Kind { return KindPackedStringArray }
func (p PackedStringArray) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindPackedStringArray))
	out = wire.AppendU32(out, uint32(len(p)))
	for _, s := range p {
		out = wire.AppendU32(out, uint32(len(s)))
		out = append(out, s...)
		if pad := wire.PadTo4(len(s)); pad > 0 {
			out = append(out, make([]byte, pad)...)
		}
	}
	return out, nil
}
func decodePackedStringArray(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 4, "PackedStringArray length"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[:4]))
	offset := 4
	out := make(PackedStringArray, 0, count)
	for i := 0; i < count; i++ {
		if err := wire.Need(body, offset+4, "PackedStringArray element length"); err != nil {
			return nil, 0, err
		}
		strLen := int(wire.U32(body[offset : offset+4]))
		offset += 4
		if err := wire.Need(body, offset+strLen, "PackedStringArray element data"); err != nil {
			return nil, 0, err
		}
		data := body[offset : offset+strLen]
		if err := wire.ValidUTF8(data, "PackedStringArray element"); err != nil {
			return nil, 0, err
		}
		out = append(out, string(data))
		offset += strLen
		if pad := wire.PadTo4(strLen); pad > 0 {
			if err := wire.Need(body, offset+pad, "PackedStringArray element padding"); err != nil {
				return nil, 0, err
			}
			offset += pad
		}
	}
	return out, offset, nil
}
