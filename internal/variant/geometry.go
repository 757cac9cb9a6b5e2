package variant

import (
	"math"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

func init() {
	registerDecoder(KindTransform2D, decodeTransform2D)
	registerDecoder(KindTransform3D, decodeTransform3D)
	registerDecoder(KindBasis, decodeBasis)
	registerDecoder(KindProjection, decodeProjection)
	registerDecoder(KindPlane, decodePlane)
	registerDecoder(KindQuaternion, decodeQuaternion)
	registerDecoder(KindAABB, decodeAABB)
	registerDecoder(KindColor, decodeColor)
}

// Transform2D is a 3x2 matrix: two basis columns plus an origin, each a
// Vector2, flattened row-major as the wire format carries it.
type Transform2D struct{ M [6]float64 }

func (Transform2D) Kind() Kind { return KindTransform2D }
func (t Transform2D) Encode() ([]byte, error) {
	return encodeFloatVec(KindTransform2D, t.M[:]), nil
}
func decodeTransform2D(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 6)
	if err != nil {
		return nil, 0, err
	}
	var t Transform2D
	copy(t.M[:], vals)
	return t, n, nil
}

// Basis is a 3x3 matrix.
type Basis struct{ M [9]float64 }

func (Basis) Kind() Kind { return KindBasis }
func (b Basis) Encode() ([]byte, error) {
	return encodeFloatVec(KindBasis, b.M[:]), nil
}
func decodeBasis(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 9)
	if err != nil {
		return nil, 0, err
	}
	var b Basis
	copy(b.M[:], vals)
	return b, n, nil
}

// Transform3D is a Basis plus an origin vector (9 + 3 = 12 components).
type Transform3D struct{ M [12]float64 }

func (Transform3D) Kind() Kind { return KindTransform3D }
func (t Transform3D) Encode() ([]byte, error) {
	return encodeFloatVec(KindTransform3D, t.M[:]), nil
}
func decodeTransform3D(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 12)
	if err != nil {
		return nil, 0, err
	}
	var t Transform3D
	copy(t.M[:], vals)
	return t, n, nil
}

// Projection is a 4x4 matrix.
type Projection struct{ M [16]float64 }

func (Projection) Kind() Kind { return KindProjection }
func (p Projection) Encode() ([]byte, error) {
	return encodeFloatVec(KindProjection, p.M[:]), nil
}
func decodeProjection(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 16)
	if err != nil {
		return nil, 0, err
	}
	var p Projection
	copy(p.M[:], vals)
	return p, n, nil
}

type Plane struct{ X, Y, Z, D float64 }

func (Plane) Kind() Kind { return KindPlane }
func (p Plane) Encode() ([]byte, error) {
	return encodeFloatVec(KindPlane, []float64{p.X, p.Y, p.Z, p.D}), nil
}
func decodePlane(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 4)
	if err != nil {
		return nil, 0, err
	}
	return Plane{X: vals[0], Y: vals[1], Z: vals[2], D: vals[3]}, n, nil
}

type Quaternion struct{ X, Y, Z, W float64 }

func (Quaternion) Kind() Kind { return KindQuaternion }
func (q Quaternion) Encode() ([]byte, error) {
	return encodeFloatVec(KindQuaternion, []float64{q.X, q.Y, q.Z, q.W}), nil
}
func decodeQuaternion(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 4)
	if err != nil {
		return nil, 0, err
	}
	return Quaternion{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}, n, nil
}

// AABB is an axis-aligned bounding box: a position and a size, each a
// Vector3 (6 components total).
type AABB struct{ PosX, PosY, PosZ, SizeX, SizeY, SizeZ float64 }

func (AABB) Kind() Kind { return KindAABB }
func (a AABB) Encode() ([]byte, error) {
	return encodeFloatVec(KindAABB, []float64{a.PosX, a.PosY, a.PosZ, a.SizeX, a.SizeY, a.SizeZ}), nil
}
func decodeAABB(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 6)
	if err != nil {
		return nil, 0, err
	}
	return AABB{PosX: vals[0], PosY: vals[1], PosZ: vals[2], SizeX: vals[3], SizeY: vals[4], SizeZ: vals[5]}, n, nil
}

// Color is always encoded at 32-bit precision; unlike the other
// geometric kinds it has no 64-bit form and carries no precision flag.
type Color struct{ R, G, B, A float32 }

func (Color) Kind() Kind { return KindColor }
func (c Color) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindColor))
	for _, v := range [...]float32{c.R, c.G, c.B, c.A} {
		out = wire.AppendU32(out, math.Float32bits(v))
	}
	return out, nil
}
func decodeColor(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 16, "Color"); err != nil {
		return nil, 0, err
	}
	return Color{
		R: math.Float32frombits(wire.U32(body[0:4])),
		G: math.Float32frombits(wire.U32(body[4:8])),
		B: math.Float32frombits(wire.U32(body[8:12])),
		A: math.Float32frombits(wire.U32(body[12:16])),
	}, 16, nil
}
