// Package variant implements the engine's algebraic value-marshalling
// system: a 4-byte little-endian header followed by a type-specific body,
// plus a one-byte compact form used inside RPC argument lists for Bool and
// Int. EqualFloat64 compares floating point components by raw bit
// representation, so NaN payloads compare equal to themselves. The
// variant types define no equality or hashing of their own: comparing
// them with == or using them as map keys follows IEEE rules.
package variant

import (
	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// Kind is the variant's low-8-bits type code.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVector2
	KindVector2I
	KindRect2
	KindRect2I
	KindVector3
	KindVector3I
	KindTransform2D
	KindVector4
	KindVector4I
	KindPlane
	KindQuaternion
	KindAABB
	KindBasis
	KindTransform3D
	KindProjection
	KindColor
	KindStringName
	KindNodePath // unsupported
	KindRID
	KindObject   // unsupported
	KindCallable // unsupported
	KindSignal   // unsupported
	KindDictionary
	KindArray
	KindPackedByteArray
	KindPackedInt32Array
	KindPackedInt64Array
	KindPackedFloat32Array
	KindPackedFloat64Array
	KindPackedStringArray
	KindPackedVector2Array // unsupported
	KindPackedVector3Array // unsupported
	KindPackedColorArray   // unsupported
	KindPackedVector4Array // unsupported
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

var kindNames = [...]string{
	"Nil", "Bool", "Int", "Float", "String", "Vector2", "Vector2I", "Rect2",
	"Rect2I", "Vector3", "Vector3I", "Transform2D", "Vector4", "Vector4I",
	"Plane", "Quaternion", "AABB", "Basis", "Transform3D", "Projection",
	"Color", "StringName", "NodePath", "RID", "Object", "Callable", "Signal",
	"Dictionary", "Array", "PackedByteArray", "PackedInt32Array",
	"PackedInt64Array", "PackedFloat32Array", "PackedFloat64Array",
	"PackedStringArray", "PackedVector2Array", "PackedVector3Array",
	"PackedColorArray", "PackedVector4Array",
}

// header bit layout, replicated from marshalls.cpp / multiplayer_api.cpp.
const (
	headerTypeMask = 0xFF

	// header64Flag marks 64-bit precision for numeric/geometric kinds.
	header64Flag = 1 << 16

	arrayTypedMask  = 0b11 << 16
	arrayTypedShift = 16

	dictKeyTypedMask    = 0b11 << 16
	dictKeyTypedShift   = 16
	dictValueTypedMask  = 0b11 << 18
	dictValueTypedShift = 18
)

// Variant is implemented by every decoded value kind.
type Variant interface {
	Kind() Kind
	// Encode returns the full wire form, including the 4-byte header.
	Encode() ([]byte, error)
}

// unsupportedKind reports the fixed set of kinds this codec deliberately
// never decodes: scene-tree references, engine object handles, and the
// packed array kinds the reference marshaller never finished.
func unsupportedKind(k Kind) bool {
	switch k {
	case KindNodePath, KindObject, KindCallable, KindSignal,
		KindPackedVector2Array, KindPackedVector3Array, KindPackedColorArray, KindPackedVector4Array:
		return true
	}
	return false
}

// Decode parses one header-framed variant from b, returning the value and
// the total number of bytes consumed (including the 4-byte header).
func Decode(b []byte) (Variant, int, error) {
	if err := wire.Need(b, 4, "variant header"); err != nil {
		return nil, 0, err
	}
	header := wire.U32(b[:4])
	kind := Kind(header & headerTypeMask)
	body := b[4:]

	if unsupportedKind(kind) {
		return nil, 0, wire.NewError(wire.Unsupported, "decoding %s variants is not supported", kind)
	}

	switch kind {
	case KindDictionary:
		v, n, err := decodeDictionary(header, body)
		if err != nil {
			return nil, 0, err
		}
		return v, 4 + n, nil
	case KindArray:
		v, n, err := decodeArray(header, body)
		if err != nil {
			return nil, 0, err
		}
		return v, 4 + n, nil
	}

	fn, ok := decoders[kind]
	if !ok {
		return nil, 0, wire.NewError(wire.Unsupported, "decoding variant type %d not supported", kind)
	}
	v, n, err := fn(header, body)
	if err != nil {
		return nil, 0, err
	}
	return v, 4 + n, nil
}

type decodeFunc func(header uint32, body []byte) (Variant, int, error)

// decoders is populated by each scalar/fixed-shape file's init(); Array
// and Dictionary are dispatched directly above since they need the
// header's container sub-typing bits, not just the body.
var decoders = map[Kind]decodeFunc{}

func registerDecoder(k Kind, fn decodeFunc) {
	decoders[k] = fn
}

func need64(vals ...float64) bool {
	for _, v := range vals {
		if float64(float32(v)) != v {
			return true
		}
	}
	return false
}
