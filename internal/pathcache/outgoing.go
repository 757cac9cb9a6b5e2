package pathcache

import (
	"math/rand"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
)

// Outgoing is the dual of Cache: paths the server references on the
// client before the client has ever announced them itself. It shares
// Cache's storage shape but is kept as a separate instance per pipeline,
// since the id spaces are independent (an incoming SimplifyPath id and an
// outgoing one may collide numerically without meaning the same path).
type Outgoing struct {
	Cache
}

func NewOutgoing() *Outgoing {
	return &Outgoing{Cache: Cache{peer: make(map[peer.EngineID]*perPeer)}}
}

// GetOrWriteID returns the remote cache id already known for (enginePeer,
// path), or mints a fresh one, records it, and announces it to the peer
// with an outbound SimplifyPath frame. In the minted case it returns
// (0, false): the id isn't usable yet because the client hasn't
// acknowledged it with ConfirmPath, so callers should retry on a later
// event rather than use the returned id directly.
func (o *Outgoing) GetOrWriteID(enginePeer peer.EngineID, transportPeer peer.TransportID, path, checksum string, tx outbound.Chan) (uint32, bool) {
	if id, ok := o.GetID(enginePeer, path); ok {
		return id, true
	}

	id := rand.Uint32()
	if err := o.Insert(enginePeer, id, path, checksum); err != nil {
		o.CreateCacheEntry(enginePeer)
		_ = o.Insert(enginePeer, id, path, checksum)
	}

	f := &frame.Frame{Tag: frame.TagSimplifyPath, SimplifyPath: &frame.SimplifyPath{
		MethodsMD5Hash: checksum,
		RemoteCacheID:  id,
		Path:           path,
	}}
	payload, err := f.Encode()
	if err != nil {
		return 0, false
	}

	outbound.Send(tx, outbound.Packet{Transport: transportPeer, Channel: 0, Reliable: true, Payload: payload})

	return 0, false
}
