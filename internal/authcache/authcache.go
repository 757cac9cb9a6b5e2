// Package authcache tracks the authenticated/unauthenticated state of
// each connected transport peer, shared across the pipeline's concurrent
// event tasks the same way peer.Map and pathcache.Cache are.
package authcache

import (
	"sync"

	"github.com/sandia-minimega/godotrelay/internal/peer"
)

// Cache maps a transport peer to whether it has successfully
// authenticated.
type Cache struct {
	mu sync.Mutex
	m  map[peer.TransportID]bool
}

func New() *Cache {
	return &Cache{m: make(map[peer.TransportID]bool)}
}

// Set records the authentication result for t.
func (c *Cache) Set(t peer.TransportID, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[t] = ok
}

// Get reports the cached authentication state for t, and whether any
// result has been cached at all.
func (c *Cache) Get(t peer.TransportID) (authenticated, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	authenticated, known = c.m[t]
	return
}

// Remove deletes the cached state for t, e.g. on Disconnect.
func (c *Cache) Remove(t peer.TransportID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, t)
}
