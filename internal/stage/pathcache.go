package stage

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/pathcache"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// PathCacheConfig controls which path-protocol frames this stage consumes
// once it has acted on them, mirroring the reference layer's
// consume_confirm_path/consume_simplify_path fields.
type PathCacheConfig struct {
	Cache *pathcache.Cache

	// Outgoing is the dual cache: paths this server references on the
	// client before the client has announced them. Optional; when set,
	// its handle is deposited into the scratch alongside Cache so a
	// downstream stage can call its GetOrWriteID.
	Outgoing *pathcache.Outgoing

	ConsumeConfirmPath  bool
	ConsumeSimplifyPath bool
}

// PathCache creates and tears down each engine peer's path-cache entry on
// Connect/Disconnect, and for Receive events answers SimplifyPath
// registrations with a ConfirmPath reply while recording the id/path
// mapping, and observes ConfirmPath replies from the remote side. Each
// kind is consumed only when its Consume* field is set. Always deposits the cache (and, if configured,
// the outgoing cache) handle into the scratch before returning. Depends
// on AutoParse and PeerMap having already run. Grounded on
// layers/path_cache.rs.
func PathCache(cfg PathCacheConfig) pipeline.Stage {
	return pipeline.WithData("path_cache", cfg, func(ctx context.Context, e *pipeline.Event, cfg PathCacheConfig) (*pipeline.Event, error) {
		scratch.Insert(e.Scratch, cfg.Cache)
		if cfg.Outgoing != nil {
			scratch.Insert(e.Scratch, cfg.Outgoing)
		}

		switch e.Kind {
		case pipeline.Connect:
			cfg.Cache.CreateCacheEntry(e.EnginePeer)
			if cfg.Outgoing != nil {
				cfg.Outgoing.CreateCacheEntry(e.EnginePeer)
			}
			return e, nil
		case pipeline.Disconnect:
			cfg.Cache.RemoveCacheEntry(e.EnginePeer)
			if cfg.Outgoing != nil {
				cfg.Outgoing.RemoveCacheEntry(e.EnginePeer)
			}
			return e, nil
		}

		f, ok := scratch.Get[*frame.Frame](e.Scratch)
		if !ok {
			return nil, errMissingAutoParse("path_cache")
		}

		switch f.Tag {
		case frame.TagConfirmPath:
			log.Debug("path_cache: confirm_path engine=%v id=%v ok=%v", e.EnginePeer, f.ConfirmPath.RemoteCacheID, f.ConfirmPath.ValidRPCChecksum)
			if cfg.ConsumeConfirmPath {
				return nil, nil
			}
		case frame.TagSimplifyPath:
			sp := f.SimplifyPath
			log.Debug("path_cache: simplify_path engine=%v id=%v path=%q", e.EnginePeer, sp.RemoteCacheID, sp.Path)

			if err := cfg.Cache.Insert(e.EnginePeer, sp.RemoteCacheID, sp.Path, sp.MethodsMD5Hash); err != nil {
				return nil, err
			}

			reply := &frame.Frame{Tag: frame.TagConfirmPath, ConfirmPath: &frame.ConfirmPath{
				ValidRPCChecksum: true,
				RemoteCacheID:    sp.RemoteCacheID,
			}}
			payload, err := reply.Encode()
			if err != nil {
				return nil, err
			}
			outbound.Send(e.Outbound, outbound.Packet{Transport: e.Transport, Channel: 0, Reliable: true, Payload: payload})

			if cfg.ConsumeSimplifyPath {
				return nil, nil
			}
		}

		return e, nil
	})
}
