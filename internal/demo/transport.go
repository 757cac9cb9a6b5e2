// Package demo provides an in-process stand-in for a real ENet socket,
// for driving the pipeline without a live client: inject synthetic
// Connect/Receive/Disconnect events and observe what the pipeline sends
// back, with no network I/O anywhere.
package demo

import (
	"context"

	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/server"
)

// Transport implements server.Transport entirely in memory.
type Transport struct {
	events chan server.TransportEvent
	sent   chan outbound.Packet
}

// New returns a Transport with reasonably sized internal buffers for an
// example program to drive by hand.
func New() *Transport {
	return &Transport{
		events: make(chan server.TransportEvent, 64),
		sent:   make(chan outbound.Packet, 64),
	}
}

func (t *Transport) Events() <-chan server.TransportEvent { return t.events }

func (t *Transport) Send(ctx context.Context, pkt outbound.Packet) error {
	t.sent <- pkt
	return nil
}

// Sent exposes everything the pipeline has queued for delivery, for an
// example program to log or inspect.
func (t *Transport) Sent() <-chan outbound.Packet { return t.sent }

// Connect injects a resolved Connect event, as if transportID had just
// completed its handshake and announced enginePeer.
func (t *Transport) Connect(transportID peer.TransportID, enginePeer peer.EngineID) {
	t.events <- server.TransportEvent{Transport: transportID, Kind: pipeline.Connect, EnginePeer: enginePeer}
}

// Disconnect injects a Disconnect event for transportID.
func (t *Transport) Disconnect(transportID peer.TransportID) {
	t.events <- server.TransportEvent{Transport: transportID, Kind: pipeline.Disconnect}
}

// Receive injects a raw, as-yet-unparsed payload from transportID on
// channel.
func (t *Transport) Receive(transportID peer.TransportID, channel uint8, raw []byte) {
	t.events <- server.TransportEvent{Transport: transportID, Kind: pipeline.Receive, Channel: channel, Raw: raw}
}
