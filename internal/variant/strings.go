package variant

import (
	"github.com/sandia-minimega/godotrelay/internal/wire"
)

func init() {
	registerDecoder(KindString, decodeString)
	registerDecoder(KindStringName, decodeStringName)
}

// String is a UTF-8 string variant.
type String string

func (String) Kind() Kind { return KindString }

func (s String) Encode() ([]byte, error) {
	return encodePaddedString(KindString, string(s)), nil
}

func decodeString(_ uint32, body []byte) (Variant, int, error) {
	s, n, err := decodePaddedString(body)
	if err != nil {
		return nil, 0, err
	}
	return String(s), n, nil
}

// StringName is the engine's interned-string variant; the wire encoding
// is identical to String, only the type code differs.
type StringName string

func (StringName) Kind() Kind { return KindStringName }

func (s StringName) Encode() ([]byte, error) {
	return encodePaddedString(KindStringName, string(s)), nil
}

func decodeStringName(_ uint32, body []byte) (Variant, int, error) {
	s, n, err := decodePaddedString(body)
	if err != nil {
		return nil, 0, err
	}
	return StringName(s), n, nil
}

// encodePaddedString writes the header, a 4-byte length, the raw UTF-8
// bytes and NUL padding out to a 4-byte multiple. Length excludes padding.
func encodePaddedString(kind Kind, s string) []byte {
	out := wire.AppendU32(nil, uint32(kind))
	out = wire.AppendU32(out, uint32(len(s)))
	out = append(out, s...)
	if pad := wire.PadTo4(len(s)); pad > 0 {
		out = append(out, make([]byte, pad)...)
	}
	return out
}

func decodePaddedString(body []byte) (string, int, error) {
	if err := wire.Need(body, 4, "string length"); err != nil {
		return "", 0, err
	}
	strLen := int(wire.U32(body[:4]))
	consumed := 4

	if err := wire.Need(body, consumed+strLen, "string data"); err != nil {
		return "", 0, err
	}
	data := body[consumed : consumed+strLen]
	if err := wire.ValidUTF8(data, "string"); err != nil {
		return "", 0, err
	}
	consumed += strLen

	if pad := wire.PadTo4(strLen); pad > 0 {
		if err := wire.Need(body, consumed+pad, "string padding"); err != nil {
			return "", 0, err
		}
		consumed += pad
	}

	return string(data), consumed, nil
}
