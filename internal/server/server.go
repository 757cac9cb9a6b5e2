// Package server implements the service loop: it drains events from a
// Transport, runs each through the pipeline on its own goroutine, and
// drains the outbound channel back to the transport. Grounded on
// ron.Server's Listen/serve/clientHandler shape (goroutine-per-connection,
// mutex-protected shared state, minilog throughout) adapted to a
// single-socket, per-event concurrency model rather than ron's
// one-goroutine-per-persistent-client model: events from the same peer
// may run concurrently and complete out of order, by design.
package server

import (
	"context"
	"sync"

	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// TransportEvent is what a Transport implementation delivers to the
// server loop: either a resolved Connect/Disconnect (the transport is
// responsible for translating its own handshake, e.g. an AddPeer sys
// frame, into the engine peer ID) or a raw Receive payload.
type TransportEvent struct {
	Transport  peer.TransportID
	Kind       pipeline.Kind
	EnginePeer peer.EngineID
	Channel    uint8
	Raw        []byte
}

// Transport is the external collaborator kept out of this module's
// scope: binding a socket and running the ENet reliability layer. This
// package only consumes its event stream and send method.
type Transport interface {
	// Events returns the channel of inbound transport events. Closing
	// it signals the server loop to stop accepting new work.
	Events() <-chan TransportEvent
	// Send transmits one outbound packet descriptor.
	Send(ctx context.Context, pkt outbound.Packet) error
}

// Server runs the pipeline against one Transport's event stream.
type Server struct {
	cfg       Config
	pipeline  *pipeline.Pipeline
	transport Transport
	outCh     outbound.Chan
	errs      *log.Ring

	wg sync.WaitGroup
}

func newServer(cfg Config, p *pipeline.Pipeline, t Transport) *Server {
	return &Server{
		cfg:       cfg,
		pipeline:  p,
		transport: t,
		outCh:     make(outbound.Chan, cfg.OutboundBuffer),
		errs:      log.NewRing(cfg.ErrorRingSize),
	}
}

// Service runs one iteration: it drains at most one transport event (if
// any is pending, spawning its pipeline run on its own goroutine), then
// drains every outbound packet currently queued back to the transport.
// It returns whether an event was processed.
func (s *Server) Service(ctx context.Context) (bool, error) {
	processed := false

	select {
	case te, ok := <-s.transport.Events():
		if !ok {
			return false, nil
		}
		processed = true
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runEvent(ctx, te)
		}()
	default:
	}

	for {
		select {
		case pkt := <-s.outCh:
			if err := s.transport.Send(ctx, pkt); err != nil {
				log.Error("server: send to transport peer %v: %v", pkt.Transport, err)
			}
		default:
			return processed, nil
		}
	}
}

func (s *Server) runEvent(ctx context.Context, te TransportEvent) {
	e := &pipeline.Event{
		Kind:       te.Kind,
		Transport:  te.Transport,
		EnginePeer: te.EnginePeer,
		Channel:    te.Channel,
		Raw:        te.Raw,
		Scratch:    scratch.New(),
		Outbound:   s.outCh,
	}

	if err := s.pipeline.Run(ctx, e); err != nil {
		log.Error("server: pipeline: %v", err)
		s.errs.Println(err.Error())
	}
}

// RecentErrors returns the most recent pipeline errors, oldest first, up
// to Config.ErrorRingSize of them.
func (s *Server) RecentErrors() []string {
	return s.errs.Dump()
}

// Wait blocks until every event spawned by Service so far has finished
// its pipeline run. Intended for tests and graceful shutdown.
func (s *Server) Wait() {
	s.wg.Wait()
}
