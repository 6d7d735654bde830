package protocol

import "github.com/netlab/dlsim"

// parMaxSeq is fixed at 1 for PAR, exactly as p3.c requires.
const parMaxSeq = 1

//
// Protocol 3: positive acknowledgement with retransmission (PAR).
// Unidirectional over an unreliable channel: the sender keeps
// retransmitting the same frame until its ack comes back.
//

// ParSender is the sending half of PAR.
type ParSender struct{}

// NewParSender creates a [ParSender].
func NewParSender() *ParSender {
	return &ParSender{}
}

var _ dlsim.Protocol = &ParSender{}

// Run implements [dlsim.Protocol].
func (p *ParSender) Run(ctx dlsim.Context) {
	next := uint32(0)
	buffer := ctx.FromNetworkLayer()
	for {
		f := dlsim.Frame{Kind: dlsim.FrameData, Seq: next, Info: buffer}
		ctx.ToPhysicalLayer(f)
		ctx.StartTimer(f.Seq)
		if event := ctx.WaitForEvent(); event == dlsim.FrameArrival {
			r := ctx.FromPhysicalLayer()
			if r.Ack == next {
				ctx.StopTimer(r.Ack)
				buffer = ctx.FromNetworkLayer()
				next = incSeq(next, parMaxSeq)
			}
		}
	}
}

// ParReceiver is the receiving half of PAR.
type ParReceiver struct{}

// NewParReceiver creates a [ParReceiver].
func NewParReceiver() *ParReceiver {
	return &ParReceiver{}
}

var _ dlsim.Protocol = &ParReceiver{}

// Run implements [dlsim.Protocol].
func (p *ParReceiver) Run(ctx dlsim.Context) {
	frameExpected := uint32(0)
	for {
		if event := ctx.WaitForEvent(); event == dlsim.FrameArrival {
			r := ctx.FromPhysicalLayer()
			if r.Seq == frameExpected {
				ctx.ToNetworkLayer(r.Info)
				frameExpected = incSeq(frameExpected, parMaxSeq)
			}
			ctx.ToPhysicalLayer(dlsim.Frame{Kind: dlsim.FrameAck, Ack: 1 - frameExpected})
		}
	}
}
