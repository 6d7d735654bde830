package protocol

import "github.com/netlab/dlsim"

// oneBitMaxSeq is fixed at 1, exactly as p4.c requires.
const oneBitMaxSeq = 1

//
// Protocol 4: one-bit sliding window. Bidirectional and symmetric: both
// endpoints run this same routine, each piggybacking an ack onto its
// own outbound data frame.
//

// OneBit is the one-bit sliding-window protocol, run identically on
// both endpoints.
type OneBit struct{}

// NewOneBit creates a [OneBit].
func NewOneBit() *OneBit {
	return &OneBit{}
}

var _ dlsim.Protocol = &OneBit{}

// Run implements [dlsim.Protocol].
func (p *OneBit) Run(ctx dlsim.Context) {
	nextFrameToSend := uint32(0)
	frameExpected := uint32(0)
	buffer := ctx.FromNetworkLayer()

	send := func() {
		s := dlsim.Frame{
			Kind: dlsim.FrameData,
			Info: buffer,
			Seq:  nextFrameToSend,
			Ack:  1 - frameExpected,
		}
		ctx.ToPhysicalLayer(s)
		ctx.StartTimer(s.Seq)
	}

	send()
	for {
		event := ctx.WaitForEvent()
		if event == dlsim.FrameArrival {
			r := ctx.FromPhysicalLayer()
			if r.Seq == frameExpected {
				ctx.ToNetworkLayer(r.Info)
				frameExpected = incSeq(frameExpected, oneBitMaxSeq)
			}
			if r.Ack == nextFrameToSend {
				ctx.StopTimer(r.Ack)
				buffer = ctx.FromNetworkLayer()
				nextFrameToSend = incSeq(nextFrameToSend, oneBitMaxSeq)
			}
		}
		send()
	}
}
