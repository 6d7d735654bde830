package protocol

import "github.com/netlab/dlsim"

//
// Protocol 2: stop-and-wait. Unidirectional, over a channel assumed
// reliable — any configured loss or corruption can starve this
// protocol into a deadlock, exactly as the reference simulator's p2.c
// warns, since neither side ever arms a timer to recover from a
// dropped frame.
//

// StopWaitSender is the sending half of stop-and-wait.
type StopWaitSender struct{}

// NewStopWaitSender creates a [StopWaitSender].
func NewStopWaitSender() *StopWaitSender {
	return &StopWaitSender{}
}

var _ dlsim.Protocol = &StopWaitSender{}

// Run implements [dlsim.Protocol].
func (p *StopWaitSender) Run(ctx dlsim.Context) {
	for {
		buffer := ctx.FromNetworkLayer()
		ctx.ToPhysicalLayer(dlsim.Frame{Kind: dlsim.FrameData, Info: buffer})
		ctx.WaitForEvent() // only frame_arrival is possible on a reliable channel
	}
}

// StopWaitReceiver is the receiving half of stop-and-wait.
type StopWaitReceiver struct{}

// NewStopWaitReceiver creates a [StopWaitReceiver].
func NewStopWaitReceiver() *StopWaitReceiver {
	return &StopWaitReceiver{}
}

var _ dlsim.Protocol = &StopWaitReceiver{}

// Run implements [dlsim.Protocol].
func (p *StopWaitReceiver) Run(ctx dlsim.Context) {
	for {
		ctx.WaitForEvent()
		r := ctx.FromPhysicalLayer()
		ctx.ToNetworkLayer(r.Info)
		ctx.ToPhysicalLayer(dlsim.Frame{Kind: dlsim.FrameAck}) // dummy frame to wake the sender
	}
}
