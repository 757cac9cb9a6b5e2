package stage

import (
	"context"
	"testing"

	"github.com/sandia-minimega/godotrelay/internal/frame"
	"github.com/sandia-minimega/godotrelay/internal/pathcache"
	"github.com/sandia-minimega/godotrelay/internal/pipeline"
	"github.com/sandia-minimega/godotrelay/internal/scratch"
	"github.com/sandia-minimega/godotrelay/internal/variant"
)

func TestRPCParseResolvesPathFromCache(t *testing.T) {
	cache := pathcache.New()
	cache.CreateCacheEntry(5)
	if err := cache.Insert(5, 77, "/root/Player", "deadbeef"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	h := &frame.RemoteCallHeader{NodeIDCompression: 0, NodeID: 77, NameIDCompression: 0, NameID: 1}
	raw, err := (&frame.Frame{Tag: frame.TagRemoteCall, RemoteCall: h}).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	arg, err := variant.EncodeCompact(variant.Int(9001))
	if err != nil {
		t.Fatalf("encode arg: %v", err)
	}
	raw = append(raw, byte(1)) // argc
	raw = append(raw, arg...)

	e := &pipeline.Event{Kind: pipeline.Receive, EnginePeer: 5, Raw: raw, Scratch: scratch.New()}
	e, err = AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}
	scratch.Insert(e.Scratch, cache)

	got, err := RPCParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("rpc_parse: %v", err)
	}

	cmd, ok := scratch.Get[*RPCCommand](got.Scratch)
	if !ok {
		t.Fatal("expected RPCCommand in scratch")
	}
	if cmd.Path != "/root/Player" {
		t.Errorf("got path %q", cmd.Path)
	}
	if len(cmd.Args) != 1 || cmd.Args[0].(variant.Int) != 9001 {
		t.Errorf("got args %+v", cmd.Args)
	}
}

func TestRPCParseFailsWithoutPathCacheHit(t *testing.T) {
	cache := pathcache.New()
	cache.CreateCacheEntry(5)

	h := &frame.RemoteCallHeader{NodeIDCompression: 0, NodeID: 123, NameIDCompression: 0, NameID: 1, ByteOnlyOrNoArgs: true}
	raw, err := (&frame.Frame{Tag: frame.TagRemoteCall, RemoteCall: h}).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	e := &pipeline.Event{Kind: pipeline.Receive, EnginePeer: 5, Raw: raw, Scratch: scratch.New()}
	e, err = AutoParse().Call(context.Background(), e)
	if err != nil {
		t.Fatalf("auto_parse: %v", err)
	}
	scratch.Insert(e.Scratch, cache)

	if _, err := RPCParse().Call(context.Background(), e); err == nil {
		t.Fatal("expected error for uncached node id")
	}
}

func TestResolvePathFullPathSent(t *testing.T) {
	h := &frame.RemoteCallHeader{NodeIDCompression: 2, NodeID: 6 | fullPathSentFlag, NameIDCompression: 0, NameID: 1}
	e := &pipeline.Event{Raw: append([]byte{0, 0, 0, 0, 0, 0}, []byte("/root/Enemy")...)}

	path, err := resolvePath(e, h)
	if err != nil {
		t.Fatalf("resolvePath: %v", err)
	}
	if path != "/root/Enemy" {
		t.Errorf("got path %q", path)
	}
}

func TestResolvePathFullPathTooShortFails(t *testing.T) {
	h := &frame.RemoteCallHeader{NodeID: 100 | fullPathSentFlag}
	e := &pipeline.Event{Raw: make([]byte, 4)}

	if _, err := resolvePath(e, h); err == nil {
		t.Fatal("expected error for offset beyond packet length")
	}
}

func TestDecodeArgsByteOnly(t *testing.T) {
	h := &frame.RemoteCallHeader{HeaderLen: 3, ByteOnlyOrNoArgs: true}
	raw := []byte{0, 0, 0, 1, 2, 3}

	args, err := decodeArgs(raw, h)
	if err != nil {
		t.Fatalf("decodeArgs: %v", err)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 packed-byte-array arg, got %d", len(args))
	}
	pba, ok := args[0].(variant.PackedByteArray)
	if !ok || len(pba) != 3 {
		t.Fatalf("got %+v", args[0])
	}
}

func TestDecodeArgsTruncatedFails(t *testing.T) {
	h := &frame.RemoteCallHeader{HeaderLen: 3}
	raw := []byte{0, 0, 0, 2} // argc=2 but no argument bytes follow

	if _, err := decodeArgs(raw, h); err == nil {
		t.Fatal("expected error for truncated argument list")
	}
}
