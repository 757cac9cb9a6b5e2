package variant

import (
	log "github.com/sandia-minimega/godotrelay/pkg/minilog"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// arrayBuiltInMax bounds which sub-type codes an Array's typed-container flag
// honors; above this the container falls back to variable-typed.
const arrayBuiltInMax = 20

// dictBuiltInMax bounds the same for a Dictionary's key/value sub-types.
const dictBuiltInMax = 4

// Array is the engine's homogeneous-or-not sequence variant. ElemKind is
// nonzero only when the wire header carried a typed-container sub-type in
// the range this codec honors (1..20); otherwise decoded elements may be
// of any kind and ElemKind is left at KindNil.
type Array struct {
	Elems    []Variant
	ElemKind Kind
	Typed    bool
}

func (Array) Kind() Kind { return KindArray }

func (a Array) Encode() ([]byte, error) {
	header := uint32(KindArray)
	if a.Typed {
		header |= 1 << arrayTypedShift
	}

	out := wire.AppendU32(nil, header)
	if a.Typed {
		out = wire.AppendU32(out, uint32(a.ElemKind))
	}
	out = wire.AppendU32(out, uint32(len(a.Elems))&0x7FFFFFFF)

	for i, e := range a.Elems {
		enc, err := e.Encode()
		if err != nil {
			return nil, wire.NewError(wire.BadLength, "array element %d: %v", i, err)
		}
		out = append(out, enc...)
	}
	return out, nil
}

func decodeArray(header uint32, body []byte) (Variant, int, error) {
	typeKind := (header & arrayTypedMask) >> arrayTypedShift
	offset := 0
	var elemType uint32

	switch typeKind {
	case 0:
		// untyped
	case 1:
		if err := wire.Need(body, 4, "typed array sub-type"); err != nil {
			return nil, 0, err
		}
		elemType = wire.U32(body[:4])
		offset += 4
	default:
		return nil, 0, wire.NewError(wire.Unsupported, "non-built-in typed array variants not supported")
	}

	typed := false
	var elemKind Kind
	if elemType > 0 && elemType <= arrayBuiltInMax {
		typed = true
		elemKind = Kind(elemType)
	} else if elemType != 0 {
		log.Warn("variant: array element type %d not fully supported, falling back to variable", elemType)
	}

	if err := wire.Need(body[offset:], 4, "array count"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[offset:offset+4]) & 0x7FFFFFFF)
	offset += 4

	elems := make([]Variant, 0, count)
	for i := 0; i < count; i++ {
		v, n, err := Decode(body[offset:])
		if err != nil {
			return nil, 0, wire.NewError(wire.BadLength, "array element %d of %d: %v", i+1, count, err)
		}
		elems = append(elems, v)
		offset += n
	}

	return Array{Elems: elems, ElemKind: elemKind, Typed: typed}, offset, nil
}

// Dictionary is the engine's ordered key/value variant. Insertion order is
// preserved, matching the engine's own Dictionary semantics.
type Dictionary struct {
	Keys      []Variant
	Values    []Variant
	KeyKind   Kind
	ValueKind Kind
	Typed     bool
}

func (Dictionary) Kind() Kind { return KindDictionary }

func (d Dictionary) Encode() ([]byte, error) {
	header := uint32(KindDictionary)
	if d.Typed {
		header |= 1 << dictKeyTypedShift
		header |= 1 << dictValueTypedShift
	}

	out := wire.AppendU32(nil, header)
	if d.Typed {
		out = wire.AppendU32(out, uint32(d.KeyKind))
		out = wire.AppendU32(out, uint32(d.ValueKind))
	}
	out = wire.AppendU32(out, uint32(len(d.Keys))&0x7FFFFFFF)

	for i := range d.Keys {
		kb, err := d.Keys[i].Encode()
		if err != nil {
			return nil, wire.NewError(wire.BadLength, "dictionary key %d: %v", i, err)
		}
		vb, err := d.Values[i].Encode()
		if err != nil {
			return nil, wire.NewError(wire.BadLength, "dictionary value %d: %v", i, err)
		}
		out = append(out, kb...)
		out = append(out, vb...)
	}
	return out, nil
}

func decodeDictionary(header uint32, body []byte) (Variant, int, error) {
	keyTypeKind := (header & dictKeyTypedMask) >> dictKeyTypedShift
	valueTypeKind := (header & dictValueTypedMask) >> dictValueTypedShift
	offset := 0
	var keyType, valueType uint32

	switch keyTypeKind {
	case 0:
	case 1:
		if err := wire.Need(body[offset:], 4, "typed dictionary key sub-type"); err != nil {
			return nil, 0, err
		}
		keyType = wire.U32(body[offset : offset+4])
		offset += 4
	default:
		return nil, 0, wire.NewError(wire.Unsupported, "non-built-in typed dictionary key variants not supported")
	}

	switch valueTypeKind {
	case 0:
	case 1:
		if err := wire.Need(body[offset:], 4, "typed dictionary value sub-type"); err != nil {
			return nil, 0, err
		}
		valueType = wire.U32(body[offset : offset+4])
		offset += 4
	default:
		return nil, 0, wire.NewError(wire.Unsupported, "non-built-in typed dictionary value variants not supported")
	}

	typed := false
	var keyKind, valueKind Kind
	if keyType > 0 && keyType <= dictBuiltInMax && valueType > 0 && valueType <= dictBuiltInMax {
		typed = true
		keyKind = Kind(keyType)
		valueKind = Kind(valueType)
	} else {
		if keyType != 0 {
			log.Warn("variant: dictionary key type %d not fully supported, falling back to variable", keyType)
		}
		if valueType != 0 {
			log.Warn("variant: dictionary value type %d not fully supported, falling back to variable", valueType)
		}
	}

	if err := wire.Need(body[offset:], 4, "dictionary count"); err != nil {
		return nil, 0, err
	}
	count := int(wire.U32(body[offset:offset+4]) & 0x7FFFFFFF)
	offset += 4

	keys := make([]Variant, 0, count)
	values := make([]Variant, 0, count)
	for i := 0; i < count; i++ {
		k, n, err := Decode(body[offset:])
		if err != nil {
			return nil, 0, wire.NewError(wire.BadLength, "dictionary key %d of %d: %v", i+1, count, err)
		}
		offset += n

		v, n, err := Decode(body[offset:])
		if err != nil {
			return nil, 0, wire.NewError(wire.BadLength, "dictionary value %d of %d: %v", i+1, count, err)
		}
		offset += n

		keys = append(keys, k)
		values = append(values, v)
	}

	return Dictionary{Keys: keys, Values: values, KeyKind: keyKind, ValueKind: valueKind, Typed: typed}, offset, nil
}
