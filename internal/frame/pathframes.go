package frame

import (
	"bytes"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// simplifyPathMinLen is tag(1) + md5 hex(32) + NUL(1) + cache id(4) == 38.
// The path and its trailing NUL follow; the parser does not require the
// trailing NUL (CleanPath strips it when present), so a 38-byte packet
// parses as an empty path. The encoder always writes the trailing NUL.
const simplifyPathMinLen = 38

func parseSimplifyPath(b []byte) (*SimplifyPath, error) {
	if err := wire.Need(b, simplifyPathMinLen, "simplify_path"); err != nil {
		return nil, err
	}

	hash := b[1:33]
	if err := wire.ValidUTF8(hash, "methods_md5_hash"); err != nil {
		return nil, err
	}
	// b[33] is the NUL pad after the hash.

	cacheID := wire.U32(b[34:38])

	path := CleanPath(b[38:])
	if err := wire.ValidUTF8(path, "path"); err != nil {
		return nil, err
	}

	return &SimplifyPath{
		MethodsMD5Hash: string(hash),
		RemoteCacheID:  cacheID,
		Path:           string(path),
	}, nil
}

func encodeSimplifyPath(sp *SimplifyPath) ([]byte, error) {
	if len(sp.MethodsMD5Hash) != 32 {
		return nil, wire.NewError(wire.BadLength, "methods_md5_hash must be 32 characters, got %d", len(sp.MethodsMD5Hash))
	}

	out := []byte{byte(TagSimplifyPath)}
	out = append(out, sp.MethodsMD5Hash...)
	out = append(out, 0)
	out = wire.AppendU32(out, sp.RemoteCacheID)
	out = append(out, sp.Path...)
	out = append(out, 0)
	return out, nil
}

// CleanPath strips trailing NUL padding from a path, as sent on the wire.
func CleanPath(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

const confirmPathLen = 6

func parseConfirmPath(b []byte) (*ConfirmPath, error) {
	if len(b) != confirmPathLen {
		return nil, wire.NewError(wire.BadLength, "confirm_path must be exactly %d bytes, got %d", confirmPathLen, len(b))
	}

	return &ConfirmPath{
		ValidRPCChecksum: b[1] != 0,
		RemoteCacheID:    wire.U32(b[2:6]),
	}, nil
}

func encodeConfirmPath(cp *ConfirmPath) ([]byte, error) {
	out := make([]byte, 0, confirmPathLen)
	out = append(out, byte(TagConfirmPath))
	if cp.ValidRPCChecksum {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = wire.AppendU32(out, cp.RemoteCacheID)
	return out, nil
}
