// Package stage implements the five built-in pipeline stages: AutoParse,
// Authentication, PeerMap, PathCache and RPCParse. Each is grounded on the
// matching layers/*.rs file from the Rust reference this system was
// distilled from, adapted to the Go pipeline's Stage interface and to
// this codec's frame/variant packages.
package stage

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// AutoParse parses every Receive event's raw payload into a *frame.Frame
// and inserts it into the event's scratch pile. It does not touch
// Connect/Disconnect events, and it does not decode the RPC argument
// list, which requires the path cache (see RPCParse). Grounded on
// layers/auto_parse.rs.
func AutoParse() pipeline.Stage {
	return pipeline.Func("auto_parse", func(ctx context.Context, e *pipeline.Event) (*pipeline.Event, error) {
		if e.Kind != pipeline.Receive {
			return e, nil
		}

		f, err := frame.Parse(e.Raw)
		if err != nil {
			return nil, err
		}

		log.Debug("auto_parse: transport=%v tag=%v", e.Transport, f.Tag)
		scratch.Insert(e.Scratch, f)
		return e, nil
	})
}
