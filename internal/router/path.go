// Package router implements the three RPC dispatch strategies a server can
// register: routing a resolved node path straight to a sub-stage, routing
// the wire's raw name_id, and routing a name-set fingerprint shared by a
// whole class of nodes. Each is grounded on its matching
// routers/rpc/{path,function_id,function_set}.rs file.
package router

import (
	"context"
	"sync"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
	"github.com/sandia-minimega/godotrelay/internal/stage"
	"github.com/sandia-minimega/godotrelay/internal/wire"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// Path dispatches a RemoteCall event to the sub-stage registered for its
// resolved node path, passing the event through unchanged if no sub-stage
// is registered for that path. Depends on stage.RPCParse having already
// run. Grounded on routers/rpc/path.rs.
type Path struct {
	mu    sync.Mutex
	paths map[string]pipeline.Stage
}

// NewPath returns an empty Path router.
func NewPath() *Path {
	return &Path{paths: make(map[string]pipeline.Stage)}
}

// Register binds path to sub, replacing any prior registration for path
// (last write wins).
func (r *Path) Register(path string, sub pipeline.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.paths[path]; exists {
		log.Debug("rpc_path_router: replacing registration for path %q", path)
	}
	r.paths[path] = sub
}

func (r *Path) Name() string { return "rpc_path_router" }

func (r *Path) Call(ctx context.Context, e *pipeline.Event) (*pipeline.Event, error) {
	f, ok := scratch.Get[*frame.Frame](e.Scratch)
	if !ok || f.Tag != frame.TagRemoteCall {
		return e, nil
	}

	cmd, ok := scratch.Get[*stage.RPCCommand](e.Scratch)
	if !ok {
		return nil, wire.NewError(wire.Unsupported, "rpc_path_router: ran without parsed rpc command, requires rpc_parse")
	}

	r.mu.Lock()
	sub, ok := r.paths[cmd.Path]
	r.mu.Unlock()
	if !ok {
		return e, nil
	}
	return sub.Call(ctx, e)
}
