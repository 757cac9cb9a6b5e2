// Package pathcache maintains, per connected engine peer, the bijection
// between a node path and the short numeric id the RPC wire format uses in
// its place, plus the dual "outgoing" cache the server uses to mint ids for
// paths it references first.
package pathcache

import (
	"sync"

	log "github.com/sandia-minimega/godotrelay/pkg/minilog"

	"github.com/sandia-minimega/godotrelay/internal/peer"
)

// perPeer holds the three lock-step maps for a single engine peer: the
// maps must always agree on the same set of (id, path) pairs.
type perPeer struct {
	byID       map[uint32]string
	byPath     map[string]uint32
	checksumOf map[uint32]string
}

func newPerPeer() *perPeer {
	return &perPeer{
		byID:       make(map[uint32]string),
		byPath:     make(map[string]uint32),
		checksumOf: make(map[uint32]string),
	}
}

// Cache is the per-engine-peer path cache shared across a pipeline's
// concurrent event tasks.
type Cache struct {
	mu   sync.Mutex
	peer map[peer.EngineID]*perPeer
}

func New() *Cache {
	return &Cache{peer: make(map[peer.EngineID]*perPeer)}
}

// CreateCacheEntry allocates empty maps for a newly connected engine peer.
func (c *Cache) CreateCacheEntry(p peer.EngineID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peer[p] = newPerPeer()
	log.Debug("pathcache: created entry for engine peer %d", p)
}

// RemoveCacheEntry discards all cached paths for a disconnected engine peer.
func (c *Cache) RemoveCacheEntry(p peer.EngineID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.peer, p)
	log.Debug("pathcache: removed entry for engine peer %d", p)
}

// GetPath resolves a remote cache id to its path, as announced earlier by
// SimplifyPath.
func (c *Cache) GetPath(p peer.EngineID, id uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return "", false
	}
	path, ok := pp.byID[id]
	return path, ok
}

// GetID resolves a path to its remote cache id.
func (c *Cache) GetID(p peer.EngineID, path string) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return 0, false
	}
	id, ok := pp.byPath[path]
	return id, ok
}

// GetChecksum returns the method-set checksum recorded alongside id.
func (c *Cache) GetChecksum(p peer.EngineID, id uint32) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return "", false
	}
	sum, ok := pp.checksumOf[id]
	return sum, ok
}

// Insert records a (id, path, checksum) triple for p, overwriting any
// prior entry for the same id or path (last write wins).
func (c *Cache) Insert(p peer.EngineID, id uint32, path, checksum string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return &ErrNoCacheEntry{Peer: p}
	}
	if oldPath, ok := pp.byID[id]; ok {
		delete(pp.byPath, oldPath)
	}
	if oldID, ok := pp.byPath[path]; ok {
		delete(pp.byID, oldID)
		delete(pp.checksumOf, oldID)
	}
	pp.byPath[path] = id
	pp.byID[id] = path
	pp.checksumOf[id] = checksum
	log.Debug("pathcache: inserted engine peer %d id=%d path=%s", p, id, path)
	return nil
}

// RemoveID drops the entry for id, along with its path and checksum.
func (c *Cache) RemoveID(p peer.EngineID, id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return
	}
	path, ok := pp.byID[id]
	if !ok {
		return
	}
	delete(pp.byID, id)
	delete(pp.byPath, path)
	delete(pp.checksumOf, id)
}

// RemovePath drops the entry for path, along with its id and checksum.
func (c *Cache) RemovePath(p peer.EngineID, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return
	}
	id, ok := pp.byPath[path]
	if !ok {
		return
	}
	delete(pp.byPath, path)
	delete(pp.byID, id)
	delete(pp.checksumOf, id)
}

// Entries returns a snapshot of the id->path map for p, for introspection
// tools (e.g. an operator console) that want to list what's cached
// without taking a lock of their own.
func (c *Cache) Entries(p peer.EngineID) map[uint32]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pp, ok := c.peer[p]
	if !ok {
		return nil
	}
	out := make(map[uint32]string, len(pp.byID))
	for id, path := range pp.byID {
		out[id] = path
	}
	return out
}

// PeerCount returns the number of engine peers with a live cache entry.
func (c *Cache) PeerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.peer)
}

// ErrNoCacheEntry is returned when a cache operation targets an engine peer
// with no CreateCacheEntry call on record (i.e. no Connect event seen).
type ErrNoCacheEntry struct {
	Peer peer.EngineID
}

func (e *ErrNoCacheEntry) Error() string {
	return "pathcache: no cache entry for engine peer"
}
