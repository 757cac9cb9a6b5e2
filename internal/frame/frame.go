// Package frame implements byte-exact parsing and serialization of the
// eight game-engine multiplayer frame families. The command tag occupies
// the low 3 bits of byte 0; the RPC family additionally packs two
// compression-width fields into the upper bits of that same byte.
package frame

import (
	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// Tag is the 3-bit command carried in the low bits of byte 0.
type Tag byte

const (
	TagRemoteCall Tag = iota
	TagSimplifyPath
	TagConfirmPath
	TagRaw
	TagSpawn
	TagDespawn
	TagSync
	TagSys
)

const cmdMask = 0x7

const (
	nodeIDCompressionShift = 4
	nameIDCompressionShift = 6
)

// Frame is the tagged union of the eight parsed frame families. Exactly
// one of the typed fields is meaningful, selected by Tag.
type Frame struct {
	Tag Tag

	RemoteCall *RemoteCallHeader
	// SimplifyPath/ConfirmPath/Raw/Sys carry their payload in the
	// matching field below; Spawn/Despawn/Sync are opaque pass-throughs
	// and carry no payload beyond the tag.
	SimplifyPath *SimplifyPath
	ConfirmPath  *ConfirmPath
	Raw          *Raw
	Sys          *Sys
}

// RemoteCallHeader is the parsed header of a RemoteCall frame. The
// argument list itself is decoded later by the RPC-parse stage, once the
// path cache is available.
type RemoteCallHeader struct {
	NodeIDCompression uint8
	NodeID            uint32
	NameIDCompression uint8
	NameID            uint32
	// ByteOnlyOrNoArgs is bit 7 of the header byte: when set, the
	// remainder of the packet is a single packed-byte-array argument
	// rather than a structured argument list.
	ByteOnlyOrNoArgs bool

	// HeaderLen is the number of bytes consumed by the fixed-size header
	// portion (tag + node_id + name_id), i.e. the offset at which the
	// argument-count byte (or raw byte-array payload) begins.
	HeaderLen int
}

type SimplifyPath struct {
	MethodsMD5Hash string // 32 lowercase hex digits
	RemoteCacheID  uint32
	Path           string
}

type ConfirmPath struct {
	ValidRPCChecksum bool
	RemoteCacheID    uint32
}

type Raw struct {
	Content []byte
}

type SysSubCommand byte

const (
	SysAuth SysSubCommand = iota
	SysAddPeer
	SysDelPeer
	SysRelay
)

// Sys is the tagged union of the four sys sub-commands.
type Sys struct {
	Sub SysSubCommand

	// Auth carries the raw bytes of an AuthMessage; nil/empty for
	// AuthComplete (distinguished by IsAuthComplete).
	AuthMessage    []byte
	IsAuthComplete bool
	EnginePeer     int32 // valid for AddPeer, DelPeer, Relay
	RelayContent   []byte
}

// Parse dispatches on the 3-bit command tag in b[0] and parses the
// matching frame family. The RemoteCall, SimplifyPath and Sys families
// additionally validate their own minimum lengths.
func Parse(b []byte) (*Frame, error) {
	if err := wire.Need(b, 1, "frame header"); err != nil {
		return nil, err
	}

	tag := Tag(b[0] & cmdMask)

	switch tag {
	case TagRemoteCall:
		h, err := parseRemoteCall(b)
		if err != nil {
			return nil, err
		}
		return &Frame{Tag: tag, RemoteCall: h}, nil
	case TagSimplifyPath:
		sp, err := parseSimplifyPath(b)
		if err != nil {
			return nil, err
		}
		return &Frame{Tag: tag, SimplifyPath: sp}, nil
	case TagConfirmPath:
		cp, err := parseConfirmPath(b)
		if err != nil {
			return nil, err
		}
		return &Frame{Tag: tag, ConfirmPath: cp}, nil
	case TagRaw:
		return &Frame{Tag: tag, Raw: &Raw{Content: append([]byte(nil), b[1:]...)}}, nil
	case TagSpawn, TagDespawn, TagSync:
		return &Frame{Tag: tag}, nil
	case TagSys:
		s, err := parseSys(b)
		if err != nil {
			return nil, err
		}
		return &Frame{Tag: tag, Sys: s}, nil
	}

	return nil, wire.NewError(wire.BadTag, "tag %d", tag)
}

// Encode serializes f back into its wire form.
func (f *Frame) Encode() ([]byte, error) {
	switch f.Tag {
	case TagRemoteCall:
		return encodeRemoteCall(f.RemoteCall)
	case TagSimplifyPath:
		return encodeSimplifyPath(f.SimplifyPath)
	case TagConfirmPath:
		return encodeConfirmPath(f.ConfirmPath)
	case TagRaw:
		out := make([]byte, 0, 1+len(f.Raw.Content))
		out = append(out, byte(TagRaw))
		out = append(out, f.Raw.Content...)
		return out, nil
	case TagSpawn, TagDespawn, TagSync:
		return []byte{byte(f.Tag)}, nil
	case TagSys:
		return encodeSys(f.Sys)
	}
	return nil, wire.NewError(wire.BadTag, "tag %d", f.Tag)
}
