package router

import (
	"context"
	"sync"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// FunctionName dispatches a RemoteCall event to the sub-stage registered
// for its wire name_id, without needing the path cache or RPCParse at
// all: it reads the id straight off the parsed frame header. Grounded on
// routers/rpc/function_id.rs.
type FunctionName struct {
	mu    sync.Mutex
	names map[uint32]pipeline.Stage
}

// NewFunctionName returns an empty FunctionName router.
func NewFunctionName() *FunctionName {
	return &FunctionName{names: make(map[uint32]pipeline.Stage)}
}

// Register binds id to sub, replacing any prior registration for id
// (last write wins).
func (r *FunctionName) Register(id uint32, sub pipeline.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[id]; exists {
		log.Debug("rpc_function_name_router: replacing registration for name_id %d", id)
	}
	r.names[id] = sub
}

func (r *FunctionName) Name() string { return "rpc_function_name_router" }

func (r *FunctionName) Call(ctx context.Context, e *pipeline.Event) (*pipeline.Event, error) {
	f, ok := scratch.Get[*frame.Frame](e.Scratch)
	if !ok || f.Tag != frame.TagRemoteCall {
		return e, nil
	}

	r.mu.Lock()
	sub, ok := r.names[f.RemoteCall.NameID]
	r.mu.Unlock()
	if !ok {
		return e, nil
	}
	return sub.Call(ctx, e)
}
