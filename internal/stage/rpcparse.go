package stage

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pathcache"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
	"github.com/sandia-minimega/godotrelay/internal/variant"
	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// fullPathSentFlag is the RemoteCall header's node_id high bit: when set,
// the bottom 31 bits are not a cache id but the byte offset at which the
// full, uncompressed node path begins. It is independent of the header
// byte's own ByteOnlyOrNoArgs flag, which lives in a different field
// entirely (see frame.RemoteCallHeader).
const fullPathSentFlag = 0x80000000

// RPCCommand is the fully resolved remote call: the target node path and
// its decoded argument list, ready for a router to dispatch on.
type RPCCommand struct {
	Path string
	Args []variant.Variant
}

// RPCParse resolves a RemoteCall frame's target path (either the full path
// sent inline in the packet, or via the path cache) and decodes its
// argument list, inserting
// the result as an RPCCommand. Depends on AutoParse, PeerMap and
// PathCache having already run. Grounded on layers/rpc_parse.rs, which
// this mirrors faithfully except that offset computation always uses
// 1<<n rather than the reference's 2^n XOR bug (see frame.parseRemoteCall).
func RPCParse() pipeline.Stage {
	return pipeline.Func("rpc_parse", func(ctx context.Context, e *pipeline.Event) (*pipeline.Event, error) {
		if e.Kind != pipeline.Receive {
			return e, nil
		}

		f, ok := scratch.Get[*frame.Frame](e.Scratch)
		if !ok {
			return nil, errMissingAutoParse("rpc_parse")
		}
		if f.Tag != frame.TagRemoteCall {
			return e, nil
		}
		h := f.RemoteCall

		path, err := resolvePath(e, h)
		if err != nil {
			return nil, err
		}

		args, err := decodeArgs(e.Raw, h)
		if err != nil {
			return nil, err
		}

		scratch.Insert(e.Scratch, &RPCCommand{Path: path, Args: args})
		return e, nil
	})
}

func resolvePath(e *pipeline.Event, h *frame.RemoteCallHeader) (string, error) {
	if h.NodeID&fullPathSentFlag != 0 {
		offset := int(h.NodeID &^ fullPathSentFlag)
		if offset > len(e.Raw) {
			return "", wire.NewError(wire.TooShort, "rpc_parse: full path rpc packet too short to contain full path")
		}
		return string(frame.CleanPath(e.Raw[offset:])), nil
	}

	cache, ok := scratch.Get[*pathcache.Cache](e.Scratch)
	if !ok {
		return "", wire.NewError(wire.Unsupported, "rpc_parse: ran without path cache in scratch, requires path_cache")
	}

	path, ok := cache.GetPath(e.EnginePeer, h.NodeID)
	if !ok {
		return "", wire.NewError(wire.BadLength, "rpc_parse: no cached path for engine peer %v node id %d", e.EnginePeer, h.NodeID)
	}
	return path, nil
}

func decodeArgs(raw []byte, h *frame.RemoteCallHeader) ([]variant.Variant, error) {
	if len(raw) < h.HeaderLen {
		return nil, wire.NewError(wire.TooShort, "rpc_parse: packet too short to contain rpc header")
	}

	if h.ByteOnlyOrNoArgs {
		if len(raw) > h.HeaderLen {
			return []variant.Variant{variant.PackedByteArray(append([]byte(nil), raw[h.HeaderLen:]...))}, nil
		}
		return nil, nil
	}

	if err := wire.Need(raw, h.HeaderLen+1, "rpc_parse: argument count"); err != nil {
		return nil, err
	}
	argc := int(raw[h.HeaderLen])
	offset := h.HeaderLen + 1

	args := make([]variant.Variant, 0, argc)
	for i := 0; i < argc; i++ {
		if offset >= len(raw) {
			return nil, wire.NewError(wire.TooShort, "rpc_parse: packet too short to contain argument %d of %d", i+1, argc)
		}
		v, n, err := variant.DecodeCompact(raw[offset:])
		if err != nil {
			return nil, wire.NewError(wire.BadLength, "rpc_parse: argument %d of %d: %v", i+1, argc, err)
		}
		args = append(args, v)
		offset += n
	}
	return args, nil
}
