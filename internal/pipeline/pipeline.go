// Package pipeline implements the ordered stage chain that every transport
// event runs through: each Stage inspects and optionally rewrites an Event,
// consumes it by returning nil, or fails the whole chain with a StageError.
// Modeled as a client command queue walked in order, each stage free to
// stop the walk, pass the event on unchanged or rewritten, or abort it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
)

// Kind distinguishes the three shapes an Event can take.
type Kind int

const (
	// Connect fires once a new transport peer has sent its engine-level
	// identity (the AddPeer sys frame).
	Connect Kind = iota
	// Disconnect fires when a transport peer drops.
	Disconnect
	// Receive carries one raw, as-yet-unparsed payload off the wire.
	Receive
)

// Event is the unit of work a Pipeline runs through its Stage chain. The
// server loop runs each Event's chain on its own goroutine, so a Stage may
// treat the Event it's handed as exclusively owned. Events from the same
// connection may run concurrently and finish in any order.
type Event struct {
	Kind Kind

	// Transport identifies the connection the event arrived on or
	// belongs to. Always set.
	Transport peer.TransportID

	// EnginePeer is set for Connect and Disconnect; the event's Stage
	// chain is responsible for resolving it for Receive (see the PeerMap
	// stage).
	EnginePeer peer.EngineID

	// Raw is the unparsed frame payload for a Receive event.
	Raw []byte
	// Channel is the ENet channel the Receive event arrived on.
	Channel uint8

	// Scratch is this event's data pile: the AutoParse stage inserts the
	// parsed Frame, PeerMap inserts the resolved EngineID, PathCache
	// inserts its Cache handle, RPCParse inserts the decoded RPCCommand.
	Scratch *scratch.Pile

	// Outbound is the handle stages use to queue reply packets (e.g. a
	// ConfirmPath response, an authentication challenge).
	Outbound outbound.Chan
}

// StageError reports which named Stage in a chain failed, and why.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Stage is one link in a Pipeline. Call returns the (possibly modified)
// event to continue the chain, nil to consume the event silently (no
// later stage runs, no error is reported), or an error to abort the whole
// chain for this event.
type Stage interface {
	Name() string
	Call(ctx context.Context, e *Event) (*Event, error)
}

// Pipeline is an ordered, immutable chain of stages. It has no mutable
// state of its own; all shared state (peer maps, path caches, auth
// caches) lives in the stages themselves.
type Pipeline struct {
	stages []Stage
}

// New returns a Pipeline that runs stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run walks e through every stage in order, stopping early if a stage
// consumes the event (returns nil, nil) or fails it.
func (p *Pipeline) Run(ctx context.Context, e *Event) error {
	cur := e
	for _, s := range p.stages {
		next, err := s.Call(ctx, cur)
		if err != nil {
			return &StageError{Stage: s.Name(), Err: err}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return nil
}

// funcStage adapts a bare function to the Stage interface, the Go
// analogue of the reference implementation's AsyncLayer::build.
type funcStage struct {
	name string
	fn   func(ctx context.Context, e *Event) (*Event, error)
}

func (f *funcStage) Name() string { return f.name }
func (f *funcStage) Call(ctx context.Context, e *Event) (*Event, error) {
	return f.fn(ctx, e)
}

// Func builds a Stage from a plain function, for ad hoc or test stages
// that need no shared state of their own.
func Func(name string, fn func(ctx context.Context, e *Event) (*Event, error)) Stage {
	return &funcStage{name: name, fn: fn}
}

// dataStage adapts a function closed over a single shared value T, the Go
// analogue of DataAsyncLayer::build / build_arc / build_default.
type dataStage[T any] struct {
	name string
	data T
	fn   func(ctx context.Context, e *Event, data T) (*Event, error)
}

func (d *dataStage[T]) Name() string { return d.name }
func (d *dataStage[T]) Call(ctx context.Context, e *Event) (*Event, error) {
	return d.fn(ctx, e, d.data)
}

// WithData builds a Stage that carries one shared value alongside the
// event on every call, e.g. a *pathcache.Cache or *peer.Map built once at
// server construction time and referenced by every subsequent event.
func WithData[T any](name string, data T, fn func(ctx context.Context, e *Event, data T) (*Event, error)) Stage {
	return &dataStage[T]{name: name, data: data, fn: fn}
}
