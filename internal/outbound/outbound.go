// Package outbound defines the shape of packets stages hand off to the
// transport for delivery, and the channel built-in stages use to do so.
package outbound

import "github.com/sandia-minimega/godotrelay/internal/peer"

// Packet is a single frame queued for delivery to a transport peer on a
// given channel.
type Packet struct {
	Transport peer.TransportID
	Channel   uint8
	Reliable  bool
	Payload   []byte
}

// Chan is the MPSC channel built-in stages (and user stages) send outbound
// packets on; the server drains it and hands packets to the transport.
type Chan chan Packet

// Send is a small convenience wrapper so callers don't need to remember
// channel-send syntax at every call site; it never blocks forever on a nil
// channel, matching the "no transport wired" test configuration.
func Send(tx Chan, p Packet) {
	if tx == nil {
		return
	}
	tx <- p
}
