package stage

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// PeerMap maintains the bijection between transport and engine peer IDs,
// populating it on Connect and tearing it down on Disconnect, and
// resolving the engine peer for every other event. It deposits both the
// transport and engine IDs, plus a handle to the map itself, into the
// scratch pile for downstream stages. Grounded on layers/peer_map.rs,
// with one addition the reference layer does not make: a Receive event
// for a transport peer with no recorded engine mapping fails the chain
// with *peer.ErrMissingEnginePeer rather than silently proceeding
// without one.
func PeerMap(m *peer.Map) pipeline.Stage {
	return pipeline.WithData("peer_map", m, func(ctx context.Context, e *pipeline.Event, m *peer.Map) (*pipeline.Event, error) {
		switch e.Kind {
		case pipeline.Connect:
			log.Debug("peer_map: connect transport=%v engine=%v", e.Transport, e.EnginePeer)
			m.Connect(e.Transport, e.EnginePeer)
		case pipeline.Disconnect:
			log.Debug("peer_map: disconnect transport=%v", e.Transport)
			m.Disconnect(e.Transport)
			return e, nil
		default:
			eng, ok := m.Engine(e.Transport)
			if !ok {
				return nil, &peer.ErrMissingEnginePeer{Transport: e.Transport}
			}
			e.EnginePeer = eng
		}

		scratch.Insert(e.Scratch, e.Transport)
		scratch.Insert(e.Scratch, e.EnginePeer)
		scratch.Insert(e.Scratch, m)
		return e, nil
	})
}
