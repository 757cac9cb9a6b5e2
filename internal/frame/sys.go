package frame

import "github.com/sandia-minimega/godotrelay/internal/wire"

// sysHeaderLen is tag(1) + sub-command(1) + engine peer(4), used by every
// sub-command except Auth (which has no engine-peer field).
const sysHeaderLen = 6

func parseSys(b []byte) (*Sys, error) {
	if err := wire.Need(b, 2, "sys header"); err != nil {
		return nil, err
	}

	switch SysSubCommand(b[1]) {
	case SysAuth:
		return parseSysAuth(b)
	case SysAddPeer:
		if err := wire.Need(b, sysHeaderLen, "sys add_peer"); err != nil {
			return nil, err
		}
		return &Sys{Sub: SysAddPeer, EnginePeer: int32(wire.U32(b[2:6]))}, nil
	case SysDelPeer:
		if err := wire.Need(b, sysHeaderLen, "sys del_peer"); err != nil {
			return nil, err
		}
		return &Sys{Sub: SysDelPeer, EnginePeer: int32(wire.U32(b[2:6]))}, nil
	case SysRelay:
		return parseSysRelay(b)
	}

	return nil, wire.NewError(wire.BadTag, "sys sub-command %d", b[1])
}

// parseSysAuth handles the Auth sub-command, which carries no engine-peer
// field on the wire: a 2-byte packet is AuthComplete, anything longer is
// an AuthMessage whose payload is everything past the sub-command byte.
func parseSysAuth(b []byte) (*Sys, error) {
	if len(b) == 2 {
		return &Sys{Sub: SysAuth, IsAuthComplete: true}, nil
	}
	return &Sys{Sub: SysAuth, AuthMessage: append([]byte(nil), b[2:]...)}, nil
}

func parseSysRelay(b []byte) (*Sys, error) {
	if err := wire.Need(b, sysHeaderLen, "sys relay"); err != nil {
		return nil, err
	}
	return &Sys{
		Sub:          SysRelay,
		EnginePeer:   int32(wire.U32(b[2:6])),
		RelayContent: append([]byte(nil), b[sysHeaderLen:]...),
	}, nil
}

func encodeSys(s *Sys) ([]byte, error) {
	out := []byte{byte(TagSys), byte(s.Sub)}

	switch s.Sub {
	case SysAuth:
		if !s.IsAuthComplete {
			out = append(out, s.AuthMessage...)
		}
	case SysAddPeer, SysDelPeer:
		out = wire.AppendU32(out, uint32(s.EnginePeer))
	case SysRelay:
		out = wire.AppendU32(out, uint32(s.EnginePeer))
		out = append(out, s.RelayContent...)
	default:
		return nil, wire.NewError(wire.BadTag, "sys sub-command %d", s.Sub)
	}

	return out, nil
}
