package protocol

import "github.com/netlab/dlsim"

// DefaultSelectiveRepeatMaxSeq is used when [NewSelectiveRepeat] is
// given 0; protocols/p6.c fixes this at 7 (2^n - 1).
const DefaultSelectiveRepeatMaxSeq = 7

// SelectiveRepeat is the nonsequential-receive protocol, run
// identically on both endpoints. Frames may arrive out of order and
// are buffered until the gap closes; each outstanding frame has its
// own timer, so a loss only costs a retransmission of that one frame.
//
// Modulus returns MaxSeq+1: callers must pass this to the engine's
// [dlsim.EngineConfig.Modulus] field, mirroring protocols/p6.c's
// explicit init_max_seqnr(MAX_SEQ+1) call before start_simulator.
type SelectiveRepeat struct {
	maxSeq uint32
	nrBufs uint32
}

// NewSelectiveRepeat creates a [SelectiveRepeat] with the given
// maximum sequence number (the modulus is maxSeq+1, see
// [SelectiveRepeat.Modulus]). maxSeq of 0 selects
// [DefaultSelectiveRepeatMaxSeq].
func NewSelectiveRepeat(maxSeq uint32) *SelectiveRepeat {
	if maxSeq == 0 {
		maxSeq = DefaultSelectiveRepeatMaxSeq
	}
	return &SelectiveRepeat{maxSeq: maxSeq, nrBufs: (maxSeq + 1) / 2}
}

// Modulus returns MaxSeq+1, the value to configure the engine's timer
// bank with.
func (p *SelectiveRepeat) Modulus() uint32 {
	return p.maxSeq + 1
}

var _ dlsim.Protocol = &SelectiveRepeat{}

// Run implements [dlsim.Protocol].
func (p *SelectiveRepeat) Run(ctx dlsim.Context) {
	maxSeq := p.maxSeq
	nrBufs := p.nrBufs

	ackExpected := uint32(0)
	nextFrameToSend := uint32(0)
	frameExpected := uint32(0)
	tooFar := nrBufs
	nbuffered := uint32(0)
	noNak := true

	outBuf := make([]dlsim.Packet, nrBufs)
	inBuf := make([]dlsim.Packet, nrBufs)
	arrived := make([]bool, nrBufs)

	sendFrame := func(kind dlsim.FrameKind, frameNr uint32) {
		f := dlsim.Frame{
			Kind: kind,
			Seq:  frameNr,
			Ack:  (frameExpected + maxSeq) % (maxSeq + 1),
		}
		if kind == dlsim.FrameData {
			f.Info = outBuf[frameNr%nrBufs]
		}
		if kind == dlsim.FrameNak {
			noNak = false
		}
		ctx.ToPhysicalLayer(f)
		if kind == dlsim.FrameData {
			ctx.StartTimer(frameNr)
		}
		ctx.StopAckTimer()
	}

	ctx.EnableNetworkLayer()
	for i := range arrived {
		arrived[i] = false
	}

	for {
		switch event := ctx.WaitForEvent(); event {
		case dlsim.NetworkLayerReady:
			nbuffered++
			outBuf[nextFrameToSend%nrBufs] = ctx.FromNetworkLayer()
			sendFrame(dlsim.FrameData, nextFrameToSend)
			nextFrameToSend = incSeq(nextFrameToSend, maxSeq)

		case dlsim.FrameArrival:
			r := ctx.FromPhysicalLayer()
			if r.Kind == dlsim.FrameData {
				if r.Seq != frameExpected && noNak {
					sendFrame(dlsim.FrameNak, 0)
				} else {
					ctx.StartAckTimer()
				}
				if between(frameExpected, r.Seq, tooFar) && !arrived[r.Seq%nrBufs] {
					arrived[r.Seq%nrBufs] = true
					inBuf[r.Seq%nrBufs] = r.Info
					for arrived[frameExpected%nrBufs] {
						ctx.ToNetworkLayer(inBuf[frameExpected%nrBufs])
						noNak = true
						arrived[frameExpected%nrBufs] = false
						frameExpected = incSeq(frameExpected, maxSeq)
						tooFar = incSeq(tooFar, maxSeq)
						ctx.StartAckTimer()
					}
				}
			}
			if r.Kind == dlsim.FrameNak && between(ackExpected, (r.Ack+1)%(maxSeq+1), nextFrameToSend) {
				sendFrame(dlsim.FrameData, (r.Ack+1)%(maxSeq+1))
			}
			for between(ackExpected, r.Ack, nextFrameToSend) {
				nbuffered--
				ctx.StopTimer(ackExpected)
				ackExpected = incSeq(ackExpected, maxSeq)
			}

		case dlsim.CksumErr:
			if noNak {
				sendFrame(dlsim.FrameNak, 0)
			}

		case dlsim.Timeout:
			sendFrame(dlsim.FrameData, ctx.GetTimedOutSeqNr())

		case dlsim.AckTimeout:
			sendFrame(dlsim.FrameAck, 0)
		}

		if nbuffered < nrBufs {
			ctx.EnableNetworkLayer()
		} else {
			ctx.DisableNetworkLayer()
		}
	}
}
