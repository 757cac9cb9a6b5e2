package outbound

import "testing"

func TestSendDeliversOnBufferedChannel(t *testing.T) {
	ch := make(Chan, 1)
	Send(ch, Packet{Payload: []byte("hi")})

	select {
	case pkt := <-ch:
		if string(pkt.Payload) != "hi" {
			t.Fatalf("payload = %q, want %q", pkt.Payload, "hi")
		}
	default:
		t.Fatal("expected packet to be queued")
	}
}

func TestSendOnNilChannelDoesNotBlock(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Send(nil, Packet{Payload: []byte("hi")})
		close(done)
	}()
	<-done
}
