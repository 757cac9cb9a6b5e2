// Package peer defines the two disjoint peer identifier spaces and the
// bijective map between them (populated on Connect, torn down on
// Disconnect), backed by plain mutex-protected maps rather than
// sync.Map.
package peer

import (
	"fmt"
	"sync"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"
)

// TransportID is the opaque unsigned index the reliable-UDP transport
// assigns a connection.
type TransportID uint32

// EngineID is the signed 32-bit peer identifier the game engine assigns at
// the application layer, carried in AddPeer sys frames. By convention
// (never enforced by this package): 0 = broadcast, 1 = server, >= 2 a
// single peer, negative = all peers except the one named.
type EngineID int32

const (
	Broadcast EngineID = 0
	ServerID  EngineID = 1
)

// Map is the bijection between TransportID and EngineID for all currently
// connected peers.
type Map struct {
	mu          sync.Mutex
	toEngine    map[TransportID]EngineID
	toTransport map[EngineID]TransportID
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{
		toEngine:    make(map[TransportID]EngineID),
		toTransport: make(map[EngineID]TransportID),
	}
}

// Connect records the bijection between t and e, replacing any prior
// mapping for either side.
func (m *Map) Connect(t TransportID, e EngineID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldE, ok := m.toEngine[t]; ok {
		delete(m.toTransport, oldE)
	}
	if oldT, ok := m.toTransport[e]; ok {
		delete(m.toEngine, oldT)
	}
	m.toEngine[t] = e
	m.toTransport[e] = t

	log.Debug("peer: connected transport=%v engine=%v", t, e)
}

// Disconnect removes the entry for t, if any.
func (m *Map) Disconnect(t TransportID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.toEngine[t]
	if !ok {
		return
	}
	delete(m.toEngine, t)
	delete(m.toTransport, e)

	log.Debug("peer: disconnected transport=%v engine=%v", t, e)
}

// Engine resolves the engine peer ID for a transport peer.
func (m *Map) Engine(t TransportID) (EngineID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.toEngine[t]
	return e, ok
}

// Transport resolves the transport peer ID for an engine peer.
func (m *Map) Transport(e EngineID) (TransportID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.toTransport[e]
	return t, ok
}

// Len returns the number of connected peers.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toEngine)
}

// Snapshot returns a copy of the transport->engine bijection, for
// introspection tools that want to list connected peers without taking
// a lock of their own.
func (m *Map) Snapshot() map[TransportID]EngineID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[TransportID]EngineID, len(m.toEngine))
	for t, e := range m.toEngine {
		out[t] = e
	}
	return out
}

// ErrMissingEnginePeer is returned by stages when an event arrives for a
// transport peer that has no recorded engine-peer mapping.
type ErrMissingEnginePeer struct {
	Transport TransportID
}

func (e *ErrMissingEnginePeer) Error() string {
	return fmt.Sprintf("no engine peer mapped for transport peer %v", e.Transport)
}
