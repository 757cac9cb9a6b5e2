package frame

import (
	"bytes"
	"testing"

	"github.com/sandia-minimega/godotrelay/internal/wire"
)

func roundTrip(t *testing.T, f *Frame) *Frame {
	t.Helper()
	b, err := f.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return got
}

func TestRemoteCallRoundTrip(t *testing.T) {
	cases := []*RemoteCallHeader{
		{NodeIDCompression: 0, NodeID: 7, NameIDCompression: 0, NameID: 3},
		{NodeIDCompression: 1, NodeID: 1000, NameIDCompression: 1, NameID: 40000},
		{NodeIDCompression: 2, NodeID: 0xDEADBEEF, NameIDCompression: 0, NameID: 255, ByteOnlyOrNoArgs: true},
	}

	for _, h := range cases {
		got := roundTrip(t, &Frame{Tag: TagRemoteCall, RemoteCall: h})
		if got.RemoteCall.NodeID != h.NodeID || got.RemoteCall.NameID != h.NameID {
			t.Errorf("round trip mismatch: got %+v, want %+v", got.RemoteCall, h)
		}
		if got.RemoteCall.ByteOnlyOrNoArgs != h.ByteOnlyOrNoArgs {
			t.Errorf("byte_only_or_no_args mismatch: got %v, want %v", got.RemoteCall.ByteOnlyOrNoArgs, h.ByteOnlyOrNoArgs)
		}
	}
}

// byteOnlyOrNoArgsFlag must never alias the node_id compression bits, since
// node_id's own high bit (0x80000000) is independently reserved by the
// RPC-parse stage for "full path sent". A regression here would corrupt
// both mechanisms at once.
func TestRemoteCallFlagDoesNotAliasNodeID(t *testing.T) {
	h := &RemoteCallHeader{NodeIDCompression: 2, NodeID: 0x7FFFFFFF, NameIDCompression: 0, NameID: 1, ByteOnlyOrNoArgs: true}
	got := roundTrip(t, &Frame{Tag: TagRemoteCall, RemoteCall: h})
	if got.RemoteCall.NodeID != 0x7FFFFFFF {
		t.Fatalf("node_id corrupted by flag bit: got %#x", got.RemoteCall.NodeID)
	}
	if !got.RemoteCall.ByteOnlyOrNoArgs {
		t.Fatalf("byte_only_or_no_args lost")
	}
}

func TestSimplifyPathRoundTrip(t *testing.T) {
	sp := &SimplifyPath{
		MethodsMD5Hash: "0123456789abcdef0123456789abcdef",
		RemoteCacheID:  42,
		Path:           "/root/Player/Body",
	}
	got := roundTrip(t, &Frame{Tag: TagSimplifyPath, SimplifyPath: sp})
	if got.SimplifyPath.Path != sp.Path || got.SimplifyPath.RemoteCacheID != sp.RemoteCacheID {
		t.Errorf("round trip mismatch: got %+v, want %+v", got.SimplifyPath, sp)
	}
}

func TestSimplifyPathEmptyPath(t *testing.T) {
	sp := &SimplifyPath{MethodsMD5Hash: "0123456789abcdef0123456789abcdef", RemoteCacheID: 1, Path: ""}
	got := roundTrip(t, &Frame{Tag: TagSimplifyPath, SimplifyPath: sp})
	if got.SimplifyPath.Path != "" {
		t.Errorf("expected empty path, got %q", got.SimplifyPath.Path)
	}
}

func TestConfirmPathRoundTrip(t *testing.T) {
	cp := &ConfirmPath{ValidRPCChecksum: true, RemoteCacheID: 99}
	got := roundTrip(t, &Frame{Tag: TagConfirmPath, ConfirmPath: cp})
	if got.ConfirmPath.RemoteCacheID != 99 || !got.ConfirmPath.ValidRPCChecksum {
		t.Errorf("round trip mismatch: got %+v", got.ConfirmPath)
	}
}

func TestRawRoundTrip(t *testing.T) {
	raw := &Raw{Content: []byte("hello world")}
	got := roundTrip(t, &Frame{Tag: TagRaw, Raw: raw})
	if !bytes.Equal(got.Raw.Content, raw.Content) {
		t.Errorf("round trip mismatch: got %q, want %q", got.Raw.Content, raw.Content)
	}
}

func TestSpawnDespawnSyncRoundTrip(t *testing.T) {
	for _, tag := range []Tag{TagSpawn, TagDespawn, TagSync} {
		got := roundTrip(t, &Frame{Tag: tag})
		if got.Tag != tag {
			t.Errorf("got tag %d, want %d", got.Tag, tag)
		}
	}
}

func TestSysAuthRoundTrip(t *testing.T) {
	msg := &Sys{Sub: SysAuth, AuthMessage: []byte("challenge")}
	got := roundTrip(t, &Frame{Tag: TagSys, Sys: msg})
	if !bytes.Equal(got.Sys.AuthMessage, msg.AuthMessage) || got.Sys.IsAuthComplete {
		t.Errorf("round trip mismatch: got %+v", got.Sys)
	}

	complete := &Sys{Sub: SysAuth, IsAuthComplete: true}
	got = roundTrip(t, &Frame{Tag: TagSys, Sys: complete})
	if !got.Sys.IsAuthComplete || len(got.Sys.AuthMessage) != 0 {
		t.Errorf("expected AuthComplete with no message, got %+v", got.Sys)
	}
}

func TestSysAddDelPeerRoundTrip(t *testing.T) {
	for _, sub := range []SysSubCommand{SysAddPeer, SysDelPeer} {
		s := &Sys{Sub: sub, EnginePeer: -7}
		got := roundTrip(t, &Frame{Tag: TagSys, Sys: s})
		if got.Sys.EnginePeer != -7 || got.Sys.Sub != sub {
			t.Errorf("round trip mismatch for sub %d: got %+v", sub, got.Sys)
		}
	}
}

func TestSysRelayRoundTrip(t *testing.T) {
	s := &Sys{Sub: SysRelay, EnginePeer: 5, RelayContent: []byte{1, 2, 3, 4}}
	got := roundTrip(t, &Frame{Tag: TagSys, Sys: s})
	if got.Sys.EnginePeer != 5 || !bytes.Equal(got.Sys.RelayContent, s.RelayContent) {
		t.Errorf("round trip mismatch: got %+v", got.Sys)
	}
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(nil)
	if kind, ok := wire.KindOf(err); !ok || kind != wire.TooShort {
		t.Fatalf("expected TooShort, got %v", err)
	}
}

func TestParseBadCompression(t *testing.T) {
	// node_id_compression bits set to 3, which is out of range (0..2).
	b := []byte{byte(TagRemoteCall) | (3 << nodeIDCompressionShift), 0, 0, 0, 0, 0}
	_, err := Parse(b)
	if kind, ok := wire.KindOf(err); !ok || kind != wire.BadCompression {
		t.Fatalf("expected BadCompression, got %v", err)
	}
}
