package dlsim

//
// Context is the capability object an [Endpoint] hands to a protocol
// implementation: the generalization of the reference simulator's
// function-pointer plug-ins (sender2/receiver2, protocol4, protocol5,
// protocol6), each of which only ever touched the primitives declared
// below. A Go function value would have worked too, but protocols here
// carry their own state across events (ack_expected, too_far, buffer
// rings), so a method set on a small struct is the more natural fit —
// hence [Protocol] rather than a bare func type.
//

// Context is everything a protocol implementation is allowed to touch.
// [Endpoint] implements it; protocols never see the engine directly.
type Context interface {
	// ID returns 0 or 1, identifying which side of the channel this
	// endpoint is. P4/P5/P6 run the same routine on both sides; none of
	// the protocols in this module branch on it.
	ID() int

	// FromNetworkLayer fetches the next packet to transmit.
	FromNetworkLayer() Packet

	// ToNetworkLayer delivers packet p to the network layer. Packets
	// delivered out of order (I4 violated) abort the run; no protocol
	// is expected to recover from this, exactly as the reference
	// simulator's to_network_layer exits the process instead of
	// returning an error code.
	ToNetworkLayer(p Packet)

	// FromPhysicalLayer returns the frame that caused the most recent
	// [FrameArrival] or [CksumErr] event.
	FromPhysicalLayer() Frame

	// ToPhysicalLayer transmits frame on the virtual channel.
	ToPhysicalLayer(f Frame)

	// StartTimer arms the data-frame timer for seq.
	StartTimer(seq uint32)

	// StopTimer disarms the data-frame timer for seq.
	StopTimer(seq uint32)

	// StartAckTimer arms the auxiliary ack timer.
	StartAckTimer()

	// StopAckTimer disarms the auxiliary ack timer.
	StopAckTimer()

	// EnableNetworkLayer allows [NetworkLayerReady] events to occur.
	EnableNetworkLayer()

	// DisableNetworkLayer suppresses [NetworkLayerReady] events.
	DisableNetworkLayer()

	// WaitForEvent blocks until the scheduler grants this endpoint a
	// turn that produces an event, and returns it.
	WaitForEvent() EventType

	// GetTimedOutSeqNr returns the sequence number associated with the
	// most recently returned [Timeout] event.
	GetTimedOutSeqNr() uint32
}

// Protocol is a pluggable data-link protocol. Implementations loop
// forever calling ctx.WaitForEvent() and reacting to whatever comes
// back, exactly as the reference simulator's protocol routines do;
// [Engine.Run] stops the loop by closing the endpoint's cue channel,
// which causes the next WaitForEvent call to unwind the goroutine
// instead of returning.
type Protocol interface {
	Run(ctx Context)
}
