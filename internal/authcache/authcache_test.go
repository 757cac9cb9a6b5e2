package authcache

import (
	"testing"

	"github.com/sandia-minimega/godotrelay/internal/peer"
)

func TestGetOnUnknownPeerReportsUnknown(t *testing.T) {
	c := New()
	if _, known := c.Get(peer.TransportID(1)); known {
		t.Fatal("expected unknown peer to report known=false")
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c := New()
	c.Set(peer.TransportID(1), true)

	authenticated, known := c.Get(peer.TransportID(1))
	if !known || !authenticated {
		t.Fatalf("got authenticated=%v known=%v, want true,true", authenticated, known)
	}

	c.Set(peer.TransportID(1), false)
	authenticated, known = c.Get(peer.TransportID(1))
	if !known || authenticated {
		t.Fatalf("got authenticated=%v known=%v, want false,true", authenticated, known)
	}
}

func TestRemoveClearsState(t *testing.T) {
	c := New()
	c.Set(peer.TransportID(1), true)
	c.Remove(peer.TransportID(1))

	if _, known := c.Get(peer.TransportID(1)); known {
		t.Fatal("expected removed peer to report known=false")
	}
}
