package protocol

import "github.com/netlab/dlsim"

// DefaultGoBackNMaxSeq is used when [NewGoBackN] is given 0; p5.c fixes
// this at 7 (2^n - 1).
const DefaultGoBackNMaxSeq = 7

// GoBackN is the pipelined Go-Back-N protocol, run identically on both
// endpoints. The sender may have up to MaxSeq frames outstanding; a
// timeout retransmits every buffered frame starting from the oldest
// unacknowledged one.
type GoBackN struct {
	maxSeq uint32
}

// NewGoBackN creates a [GoBackN] with the given maximum sequence
// number (the modulus is maxSeq+1). maxSeq of 0 selects
// [DefaultGoBackNMaxSeq].
func NewGoBackN(maxSeq uint32) *GoBackN {
	if maxSeq == 0 {
		maxSeq = DefaultGoBackNMaxSeq
	}
	return &GoBackN{maxSeq: maxSeq}
}

var _ dlsim.Protocol = &GoBackN{}

// Run implements [dlsim.Protocol].
func (p *GoBackN) Run(ctx dlsim.Context) {
	maxSeq := p.maxSeq
	ackExpected := uint32(0)
	nextFrameToSend := uint32(0)
	frameExpected := uint32(0)
	nbuffered := uint32(0)
	buffer := make([]dlsim.Packet, maxSeq+1)

	sendData := func(frameNr uint32) {
		f := dlsim.Frame{
			Kind: dlsim.FrameData,
			Seq:  frameNr,
			Info: buffer[frameNr],
			Ack:  (frameExpected + maxSeq) % (maxSeq + 1),
		}
		ctx.ToPhysicalLayer(f)
		ctx.StartTimer(frameNr)
	}

	ctx.EnableNetworkLayer()
	for {
		switch event := ctx.WaitForEvent(); event {
		case dlsim.NetworkLayerReady:
			buffer[nextFrameToSend] = ctx.FromNetworkLayer()
			nbuffered++
			sendData(nextFrameToSend)
			nextFrameToSend = incSeq(nextFrameToSend, maxSeq)

		case dlsim.FrameArrival:
			r := ctx.FromPhysicalLayer()
			if r.Seq == frameExpected {
				ctx.ToNetworkLayer(r.Info)
				frameExpected = incSeq(frameExpected, maxSeq)
			}
			for between(ackExpected, r.Ack, nextFrameToSend) {
				nbuffered--
				ctx.StopTimer(ackExpected)
				ackExpected = incSeq(ackExpected, maxSeq)
			}

		case dlsim.CksumErr:
			// damaged frames are simply ignored

		case dlsim.Timeout:
			nextFrameToSend = ackExpected
			for i := uint32(1); i <= nbuffered; i++ {
				sendData(nextFrameToSend)
				nextFrameToSend = incSeq(nextFrameToSend, maxSeq)
			}
		}

		if nbuffered < maxSeq {
			ctx.EnableNetworkLayer()
		} else {
			ctx.DisableNetworkLayer()
		}
	}
}
