package stage

import (
	"context"
	"testing"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/outbound"
	"github.com/sandia-minimega/godotrelay/internal/pathcache"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
)

func parsedReceiveEvent(t *testing.T, f *frame.Frame, tx outbound.Chan) *pipeline.Event {
	t.Helper()
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	e := &pipeline.Event{Kind: pipeline.Receive, Transport: 1, EnginePeer: 5, Raw: raw, Scratch: scratch.New(), Outbound: tx}
	got, err := AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}
	return got
}

func TestPathCacheSimplifyPathRegistersAndReplies(t *testing.T) {
	cache := pathcache.New()
	cache.CreateCacheEntry(5)
	tx := make(outbound.Chan, 1)

	s := PathCache(PathCacheConfig{Cache: cache, ConsumeSimplifyPath: true, ConsumeConfirmPath: true})

	sp := &frame.Frame{Tag: frame.TagSimplifyPath, SimplifyPath: &frame.SimplifyPath{
		MethodsMD5Hash: "d41d8cd98f00b204e9800998ecf8427e",
		RemoteCacheID:  77,
		Path:           "/root/Player",
	}}
	e := parsedReceiveEvent(t, sp, tx)

	got, err := s.Call(context.Background(), e)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != nil {
		t.Fatalf("expected event to be consumed, got %+v", got)
	}

	path, ok := cache.GetPath(5, 77)
	if !ok || path != "/root/Player" {
		t.Fatalf("got path %q ok=%v", path, ok)
	}

	select {
	case pkt := <-tx:
		reply, err := frame.Parse(pkt.Payload)
		if err != nil {
			t.Fatalf("parse reply: %v", err)
		}
		if reply.Tag != frame.TagConfirmPath || reply.ConfirmPath.RemoteCacheID != 77 || !reply.ConfirmPath.ValidRPCChecksum {
			t.Fatalf("got reply %+v", reply)
		}
	default:
		t.Fatal("expected a ConfirmPath reply to be sent")
	}
}

func TestPathCacheConfirmPathConsumedWhenConfigured(t *testing.T) {
	cache := pathcache.New()
	cache.CreateCacheEntry(5)
	s := PathCache(PathCacheConfig{Cache: cache, ConsumeConfirmPath: true})

	cp := &frame.Frame{Tag: frame.TagConfirmPath, ConfirmPath: &frame.ConfirmPath{ValidRPCChecksum: true, RemoteCacheID: 1}}
	e := parsedReceiveEvent(t, cp, nil)

	got, err := s.Call(context.Background(), e)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != nil {
		t.Fatal("expected event to be consumed")
	}
}

func TestPathCacheDepositsCacheAndOutgoingHandles(t *testing.T) {
	cache := pathcache.New()
	cache.CreateCacheEntry(5)
	outgoing := pathcache.NewOutgoing()
	s := PathCache(PathCacheConfig{Cache: cache, Outgoing: outgoing, ConsumeConfirmPath: true})

	cp := &frame.Frame{Tag: frame.TagConfirmPath, ConfirmPath: &frame.ConfirmPath{ValidRPCChecksum: true, RemoteCacheID: 1}}
	e := parsedReceiveEvent(t, cp, nil)

	got, err := s.Call(context.Background(), e)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != nil {
		t.Fatal("expected event to be consumed")
	}

	gotCache, ok := scratch.Get[*pathcache.Cache](e.Scratch)
	if !ok || gotCache != cache {
		t.Fatalf("expected cache handle in scratch, got %v ok=%v", gotCache, ok)
	}
	gotOutgoing, ok := scratch.Get[*pathcache.Outgoing](e.Scratch)
	if !ok || gotOutgoing != outgoing {
		t.Fatalf("expected outgoing cache handle in scratch, got %v ok=%v", gotOutgoing, ok)
	}
}

func TestPathCacheConnectAndDisconnectManageOutgoingEntries(t *testing.T) {
	cache := pathcache.New()
	outgoing := pathcache.NewOutgoing()
	s := PathCache(PathCacheConfig{Cache: cache, Outgoing: outgoing})

	connect := &pipeline.Event{Kind: pipeline.Connect, EnginePeer: 9, Scratch: scratch.New()}
	if _, err := s.Call(context.Background(), connect); err != nil {
		t.Fatalf("connect: %v", err)
	}
	tx := make(outbound.Chan, 1)
	if _, found := outgoing.GetOrWriteID(9, 1, "/root/Enemy", "sum", tx); found {
		t.Fatal("expected a fresh mint on first lookup")
	}

	disconnect := &pipeline.Event{Kind: pipeline.Disconnect, EnginePeer: 9, Scratch: scratch.New()}
	if _, err := s.Call(context.Background(), disconnect); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if _, ok := outgoing.GetID(9, "/root/Enemy"); ok {
		t.Fatal("expected outgoing cache entry to be gone after disconnect")
	}
}

func TestPathCacheConnectAndDisconnectManageEntries(t *testing.T) {
	cache := pathcache.New()
	s := PathCache(PathCacheConfig{Cache: cache})

	connect := &pipeline.Event{Kind: pipeline.Connect, EnginePeer: 9, Scratch: scratch.New()}
	if _, err := s.Call(context.Background(), connect); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := cache.Insert(9, 1, "/root", "x"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	disconnect := &pipeline.Event{Kind: pipeline.Disconnect, EnginePeer: 9, Scratch: scratch.New()}
	if _, err := s.Call(context.Background(), disconnect); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := cache.Insert(9, 1, "/root", "x"); err == nil {
		t.Fatal("expected cache entry to be gone after disconnect")
	}
}
