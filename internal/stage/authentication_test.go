package stage

import (
	"context"
	"testing"

	"github.com/sandia-minimega/godotrelay/internal/authcache"
	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/peer"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
)

func authEvent(t *testing.T, msg []byte, tx outbound.Chan) *pipeline.Event {
	t.Helper()
	f := &frame.Frame{Tag: frame.TagSys, Sys: &frame.Sys{Sub: frame.SysAuth, AuthMessage: msg}}
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	e := &pipeline.Event{Kind: pipeline.Receive, Transport: 3, Raw: raw, Scratch: scratch.New(), Outbound: tx}
	got, err := AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}
	return got
}

func TestAuthenticationSuccessSendsMessageAndComplete(t *testing.T) {
	cache := authcache.New()
	tx := make(outbound.Chan, 2)
	s := Authentication(AuthenticationConfig{
		Cache:        cache,
		Protected:    true,
		AutoSendAuth: true,
		Callback: func(ctx context.Context, t peer.TransportID, msg []byte, sc *scratch.Pile) bool {
			return string(msg) == "letmein"
		},
	})

	e := authEvent(t, []byte("letmein"), tx)
	got, err := s.Call(context.Background(), e)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != nil {
		t.Fatal("expected auth-processing event to always be consumed")
	}

	authed, known := cache.Get(3)
	if !known || !authed {
		t.Fatalf("expected cache to record success, got known=%v authed=%v", known, authed)
	}

	if len(tx) != 2 {
		t.Fatalf("expected 2 outbound packets (auth message + complete), got %d", len(tx))
	}

	gotCache, ok := scratch.Get[*authcache.Cache](e.Scratch)
	if !ok || gotCache != cache {
		t.Fatalf("expected auth-cache handle in scratch, got %v ok=%v", gotCache, ok)
	}
}

func TestAuthenticationFailureStillConsumesEvent(t *testing.T) {
	cache := authcache.New()
	s := Authentication(AuthenticationConfig{
		Cache:     cache,
		Protected: true,
		Callback: func(ctx context.Context, t peer.TransportID, msg []byte, sc *scratch.Pile) bool {
			return false
		},
	})

	e := authEvent(t, []byte("wrong"), nil)
	got, err := s.Call(context.Background(), e)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != nil {
		t.Fatal("expected event to be consumed regardless of outcome")
	}

	authed, known := cache.Get(3)
	if !known || authed {
		t.Fatalf("expected cache to record failure, got known=%v authed=%v", known, authed)
	}
}

func TestAuthenticationBlocksUnauthenticatedPeerWhenProtected(t *testing.T) {
	cache := authcache.New()
	cache.Set(3, false)
	s := Authentication(AuthenticationConfig{Cache: cache, Protected: true})

	raw, _ := (&frame.Frame{Tag: frame.TagSpawn}).Encode()
	e := &pipeline.Event{Kind: pipeline.Receive, Transport: 3, Raw: raw, Scratch: scratch.New()}
	got, err := AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}

	out, err := s.Call(context.Background(), got)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if out != nil {
		t.Fatal("expected unauthenticated peer's packet to be blocked")
	}
}

func TestAuthenticationAllowsUnknownPeerWhenProtected(t *testing.T) {
	// A peer with no cached result yet (e.g. Protected but hasn't
	// attempted auth) is not blocked; only a confirmed failure is.
	cache := authcache.New()
	s := Authentication(AuthenticationConfig{Cache: cache, Protected: true})

	raw, _ := (&frame.Frame{Tag: frame.TagSpawn}).Encode()
	e := &pipeline.Event{Kind: pipeline.Receive, Transport: 4, Raw: raw, Scratch: scratch.New()}
	got, err := AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}

	out, err := s.Call(context.Background(), got)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if out == nil {
		t.Fatal("expected event with no cached result to pass through")
	}
}

func TestAuthenticationDisconnectClearsCache(t *testing.T) {
	cache := authcache.New()
	cache.Set(3, true)
	s := Authentication(AuthenticationConfig{Cache: cache})

	e := &pipeline.Event{Kind: pipeline.Disconnect, Transport: 3, Scratch: scratch.New()}
	if _, err := s.Call(context.Background(), e); err != nil {
		t.Fatalf("call: %v", err)
	}
	if _, known := cache.Get(3); known {
		t.Fatal("expected cache entry to be removed on disconnect")
	}
}
