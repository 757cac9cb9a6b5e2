package variant

import "github.com/sandia-minimega/godotrelay/internal/wire"

func init() {
	registerDecoder(KindVector2, decodeVector2)
	registerDecoder(KindVector2I, decodeVector2I)
	registerDecoder(KindVector3, decodeVector3)
	registerDecoder(KindVector3I, decodeVector3I)
	registerDecoder(KindVector4, decodeVector4)
	registerDecoder(KindVector4I, decodeVector4I)
	registerDecoder(KindRect2, decodeRect2)
	registerDecoder(KindRect2I, decodeRect2I)
}

type Vector2 struct{ X, Y float64 }

func (Vector2) Kind() Kind { return KindVector2 }
func (v Vector2) Encode() ([]byte, error) {
	return encodeFloatVec(KindVector2, []float64{v.X, v.Y}), nil
}
func decodeVector2(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 2)
	if err != nil {
		return nil, 0, err
	}
	return Vector2{X: vals[0], Y: vals[1]}, n, nil
}

type Vector2I struct{ X, Y int32 }

func (Vector2I) Kind() Kind { return KindVector2I }
func (v Vector2I) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindVector2I))
	out = wire.AppendU32(out, uint32(v.X))
	return wire.AppendU32(out, uint32(v.Y)), nil
}
func decodeVector2I(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 8, "Vector2I"); err != nil {
		return nil, 0, err
	}
	return Vector2I{X: int32(wire.U32(body[0:4])), Y: int32(wire.U32(body[4:8]))}, 8, nil
}

type Vector3 struct{ X, Y, Z float64 }

func (Vector3) Kind() Kind { return KindVector3 }
func (v Vector3) Encode() ([]byte, error) {
	return encodeFloatVec(KindVector3, []float64{v.X, v.Y, v.Z}), nil
}
func decodeVector3(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 3)
	if err != nil {
		return nil, 0, err
	}
	return Vector3{X: vals[0], Y: vals[1], Z: vals[2]}, n, nil
}

type Vector3I struct{ X, Y, Z int32 }

func (Vector3I) Kind() Kind { return KindVector3I }
func (v Vector3I) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindVector3I))
	out = wire.AppendU32(out, uint32(v.X))
	out = wire.AppendU32(out, uint32(v.Y))
	return wire.AppendU32(out, uint32(v.Z)), nil
}
func decodeVector3I(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 12, "Vector3I"); err != nil {
		return nil, 0, err
	}
	return Vector3I{X: int32(wire.U32(body[0:4])), Y: int32(wire.U32(body[4:8])), Z: int32(wire.U32(body[8:12]))}, 12, nil
}

type Vector4 struct{ X, Y, Z, W float64 }

func (Vector4) Kind() Kind { return KindVector4 }
func (v Vector4) Encode() ([]byte, error) {
	return encodeFloatVec(KindVector4, []float64{v.X, v.Y, v.Z, v.W}), nil
}
func decodeVector4(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 4)
	if err != nil {
		return nil, 0, err
	}
	return Vector4{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}, n, nil
}

type Vector4I struct{ X, Y, Z, W int32 }

func (Vector4I) Kind() Kind { return KindVector4I }
func (v Vector4I) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindVector4I))
	out = wire.AppendU32(out, uint32(v.X))
	out = wire.AppendU32(out, uint32(v.Y))
	out = wire.AppendU32(out, uint32(v.Z))
	return wire.AppendU32(out, uint32(v.W)), nil
}
func decodeVector4I(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 16, "Vector4I"); err != nil {
		return nil, 0, err
	}
	return Vector4I{
		X: int32(wire.U32(body[0:4])), Y: int32(wire.U32(body[4:8])),
		Z: int32(wire.U32(body[8:12])), W: int32(wire.U32(body[12:16])),
	}, 16, nil
}

type Rect2 struct{ PosX, PosY, SizeX, SizeY float64 }

func (Rect2) Kind() Kind { return KindRect2 }
func (r Rect2) Encode() ([]byte, error) {
	return encodeFloatVec(KindRect2, []float64{r.PosX, r.PosY, r.SizeX, r.SizeY}), nil
}
func decodeRect2(header uint32, body []byte) (Variant, int, error) {
	vals, n, err := decodeFloatVec(header, body, 4)
	if err != nil {
		return nil, 0, err
	}
	return Rect2{PosX: vals[0], PosY: vals[1], SizeX: vals[2], SizeY: vals[3]}, n, nil
}

type Rect2I struct{ PosX, PosY, SizeX, SizeY int32 }

func (Rect2I) Kind() Kind { return KindRect2I }
func (r Rect2I) Encode() ([]byte, error) {
	out := wire.AppendU32(nil, uint32(KindRect2I))
	out = wire.AppendU32(out, uint32(r.PosX))
	out = wire.AppendU32(out, uint32(r.PosY))
	out = wire.AppendU32(out, uint32(r.SizeX))
	return wire.AppendU32(out, uint32(r.SizeY)), nil
}
func decodeRect2I(_ uint32, body []byte) (Variant, int, error) {
	if err := wire.Need(body, 16, "Rect2I"); err != nil {
		return nil, 0, err
	}
	return Rect2I{
		PosX: int32(wire.U32(body[0:4])), PosY: int32(wire.U32(body[4:8])),
		SizeX: int32(wire.U32(body[8:12])), SizeY: int32(wire.U32(body[12:16])),
	}, 16, nil
}
