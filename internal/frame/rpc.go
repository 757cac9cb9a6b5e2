package frame

import (
	"github.com/sandia-minimega/godotrelay/internal/wire"
)

// The header byte packs: bits[0:2] = command tag (always 0 for
// RemoteCall), bits[4:5] = node_id_compression, bit[6] = name_id_compression,
// bit[7] = byte_only_or_no_args. Bit 3 is unused.
const (
	nodeIDCompressionFlag = (1 << nodeIDCompressionShift) | (1 << (nodeIDCompressionShift + 1))
	nameIDCompressionFlag = 1 << nameIDCompressionShift
	byteOnlyOrNoArgsFlag  = 1 << 7
)

func parseRemoteCall(b []byte) (*RemoteCallHeader, error) {
	if err := wire.Need(b, 1, "rpc header"); err != nil {
		return nil, err
	}

	nodeIDCompression := (b[0] & nodeIDCompressionFlag) >> nodeIDCompressionShift
	nameIDCompression := (b[0] & nameIDCompressionFlag) >> nameIDCompressionShift
	byteOnlyOrNoArgs := b[0]&byteOnlyOrNoArgsFlag != 0

	if nodeIDCompression > 2 {
		return nil, wire.NewError(wire.BadCompression, "node_id_compression=%d", nodeIDCompression)
	}
	if nameIDCompression > 1 {
		return nil, wire.NewError(wire.BadCompression, "name_id_compression=%d", nameIDCompression)
	}

	// The reference implementation bounds-checked this with "2 ^ n"
	// (bitwise XOR) rather than "1 << n" (the intended power-of-two
	// width); this codec always uses 1 << n.
	nodeIDWidth := 1 << nodeIDCompression
	nameIDWidth := 1 << nameIDCompression

	if err := wire.Need(b, 1+nodeIDWidth+nameIDWidth, "rpc header"); err != nil {
		return nil, err
	}

	var nodeID uint32
	switch nodeIDCompression {
	case 0:
		nodeID = uint32(b[1])
	case 1:
		nodeID = uint32(wire.U16(b[1:3]))
	case 2:
		nodeID = wire.U32(b[1:5])
	}

	nameOffset := 1 + nodeIDWidth
	var nameID uint32
	switch nameIDCompression {
	case 0:
		nameID = uint32(b[nameOffset])
	case 1:
		nameID = uint32(wire.U16(b[nameOffset : nameOffset+2]))
	}

	return &RemoteCallHeader{
		NodeIDCompression: nodeIDCompression,
		NodeID:            nodeID,
		NameIDCompression: nameIDCompression,
		NameID:            nameID,
		ByteOnlyOrNoArgs:  byteOnlyOrNoArgs,
		HeaderLen:         nameOffset + nameIDWidth,
	}, nil
}

func encodeRemoteCall(h *RemoteCallHeader) ([]byte, error) {
	if h.NodeIDCompression > 2 {
		return nil, wire.NewError(wire.BadCompression, "node_id_compression=%d", h.NodeIDCompression)
	}
	if h.NameIDCompression > 1 {
		return nil, wire.NewError(wire.BadCompression, "name_id_compression=%d", h.NameIDCompression)
	}

	headerByte := byte(TagRemoteCall)
	headerByte |= (h.NodeIDCompression << nodeIDCompressionShift) & nodeIDCompressionFlag
	headerByte |= (h.NameIDCompression << nameIDCompressionShift) & nameIDCompressionFlag
	if h.ByteOnlyOrNoArgs {
		headerByte |= byteOnlyOrNoArgsFlag
	}

	out := []byte{headerByte}

	switch h.NodeIDCompression {
	case 0:
		out = append(out, byte(h.NodeID))
	case 1:
		out = wire.AppendU16(out, uint16(h.NodeID))
	case 2:
		out = wire.AppendU32(out, h.NodeID)
	}

	switch h.NameIDCompression {
	case 0:
		out = append(out, byte(h.NameID))
	case 1:
		out = wire.AppendU16(out, uint16(h.NameID))
	}

	return out, nil
}
