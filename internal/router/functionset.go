package router

import (
	"context"
	"sync"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pathcache"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
	"github.com/sandia-minimega/godotrelay/internal/wire"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// FunctionSet dispatches a RemoteCall event to the sub-stage registered
// for the method-set checksum of the node class its path cache entry was
// registered under, letting one stage serve every node that shares the
// same RPC method set regardless of its individual path. Depends on
// stage.PathCache having already run. Grounded on
// routers/rpc/function_set.rs.
type FunctionSet struct {
	mu     sync.Mutex
	hashes map[string]pipeline.Stage
}

// NewFunctionSet returns an empty FunctionSet router.
func NewFunctionSet() *FunctionSet {
	return &FunctionSet{hashes: make(map[string]pipeline.Stage)}
}

// Register binds the checksum of names (alphabetized, matching the
// engine's own SceneRPCInterface::_parse_rpc_config ordering) to sub.
func (r *FunctionSet) Register(names []string, sub pipeline.Stage) {
	r.RegisterHash(wire.MethodSetChecksum(names), sub)
}

// RegisterHash binds a precomputed checksum directly, for callers that
// already carry it (e.g. from a SimplifyPath announcement), replacing any
// prior registration for hash (last write wins).
func (r *FunctionSet) RegisterHash(hash string, sub pipeline.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.hashes[hash]; exists {
		log.Debug("rpc_function_set_router: replacing registration for checksum %s", hash)
	}
	r.hashes[hash] = sub
}

func (r *FunctionSet) Name() string { return "rpc_function_set_router" }

func (r *FunctionSet) Call(ctx context.Context, e *pipeline.Event) (*pipeline.Event, error) {
	f, ok := scratch.Get[*frame.Frame](e.Scratch)
	if !ok || f.Tag != frame.TagRemoteCall {
		return e, nil
	}

	cache, ok := scratch.Get[*pathcache.Cache](e.Scratch)
	if !ok {
		return nil, wire.NewError(wire.Unsupported, "rpc_function_set_router: ran without path cache, requires path_cache")
	}

	checksum, ok := cache.GetChecksum(e.EnginePeer, f.RemoteCall.NodeID)
	if !ok {
		log.Debug("rpc_function_set_router: no checksum for engine=%v node_id=%d", e.EnginePeer, f.RemoteCall.NodeID)
		return e, nil
	}

	r.mu.Lock()
	sub, ok := r.hashes[checksum]
	r.mu.Unlock()
	if !ok {
		return e, nil
	}
	return sub.Call(ctx, e)
}
