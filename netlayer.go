package dlsim

//
// Network-layer stub: a monotone packet source and an in-order sink.
//

import (
	"encoding/binary"
	"fmt"
)

// NetworkLayer is the deterministic source/sink collaborator each
// endpoint talks to. FromNetworkLayer hands out packets whose payload is
// a monotone big-endian counter; ToNetworkLayer verifies that packets
// are delivered in order exactly once (I4), returning [ErrOutOfOrder]
// otherwise.
type NetworkLayer struct {
	nextSend  uint32
	lastGiven int64 // -1 before the first packet is accepted
	accepted  int
}

// NewNetworkLayer creates a [NetworkLayer] ready to use.
func NewNetworkLayer() *NetworkLayer {
	return &NetworkLayer{lastGiven: -1}
}

// FromNetworkLayer fetches the next packet to transmit.
func (n *NetworkLayer) FromNetworkLayer() Packet {
	var p Packet
	binary.BigEndian.PutUint32(p.Data[:], n.nextSend)
	n.nextSend++
	return p
}

// ToNetworkLayer delivers an inbound packet. It returns [ErrOutOfOrder]
// if the packet's counter is not exactly one more than the last one
// accepted; the caller must treat that as fatal (I4, P-ORDER).
func (n *NetworkLayer) ToNetworkLayer(p Packet) error {
	num := int64(binary.BigEndian.Uint32(p.Data[:]))
	if num != n.lastGiven+1 {
		return fmt.Errorf("%w: expected payload %d but got %d", ErrOutOfOrder, n.lastGiven+1, num)
	}
	n.lastGiven = num
	n.accepted++
	return nil
}

// Accepted returns the number of payloads delivered so far.
func (n *NetworkLayer) Accepted() int {
	return n.accepted
}
