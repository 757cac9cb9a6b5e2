package variant

import (
	"math"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// encodeFloatVec replicates the engine's compile-time 32-vs-64-bit choice
// at runtime: the header gets the 64-bit flag iff any component fails to
// round-trip through a 32-bit float.
func encodeFloatVec(kind Kind, vals []float64) []byte {
	header := uint32(kind)
	if need64(vals...) {
		header |= header64Flag
	}

	out := wire.AppendU32(nil, header)
	if header&header64Flag != 0 {
		for _, v := range vals {
			out = wire.AppendU64(out, math.Float64bits(v))
		}
	} else {
		for _, v := range vals {
			out = wire.AppendU32(out, math.Float32bits(float32(v)))
		}
	}
	return out
}

// decodeFloatVec reads n float components from body, width chosen by the
// header's 64-bit flag, and returns the components plus bytes consumed
// (not counting the 4-byte header, which the caller already stripped).
func decodeFloatVec(header uint32, body []byte, n int) ([]float64, int, error) {
	vals := make([]float64, n)
	if header&header64Flag != 0 {
		if err := wire.Need(body, n*8, "float vector (64-bit)"); err != nil {
			return nil, 0, err
		}
		for i := 0; i < n; i++ {
			vals[i] = math.Float64frombits(wire.U64(body[i*8 : i*8+8]))
		}
		return vals, n * 8, nil
	}

	if err := wire.Need(body, n*4, "float vector (32-bit)"); err != nil {
		return nil, 0, err
	}
	for i := 0; i < n; i++ {
		vals[i] = float64(math.Float32frombits(wire.U32(body[i*4 : i*4+4])))
	}
	return vals, n * 4, nil
}

// EqualFloat64 reports bit-identical equality between two floats, treating
// NaN payloads as comparable (unlike Go's ==).
func EqualFloat64(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}
