package protocol_test

import (
	"testing"

	"github.com/netlab/dlsim"
	"github.com/netlab/dlsim/protocol"
)

func TestSelectiveRepeatModulus(t *testing.T) {
	sr := protocol.NewSelectiveRepeat(3)
	if got := sr.Modulus(); got != 4 {
		t.Fatalf("Modulus() = %d, want 4", got)
	}
}

func TestSelectiveRepeatSendsOneNakPerGap(t *testing.T) {
	ctx := &fakeContext{
		events: []dlsim.EventType{dlsim.CksumErr, dlsim.CksumErr},
	}

	runScript(ctx, protocol.NewSelectiveRepeat(0))

	if len(ctx.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1 (noNak must suppress the second damaged-frame nak)", len(ctx.sent))
	}
	if ctx.sent[0].Kind != dlsim.FrameNak {
		t.Fatalf("sent[0].Kind = %v, want FrameNak", ctx.sent[0].Kind)
	}
}

func TestSelectiveRepeatDeliversInOrderArrival(t *testing.T) {
	ctx := &fakeContext{
		events:  []dlsim.EventType{dlsim.FrameArrival},
		inbound: dlsim.Frame{Kind: dlsim.FrameData, Seq: 0},
	}

	runScript(ctx, protocol.NewSelectiveRepeat(0))

	if len(ctx.delivered) != 1 {
		t.Fatalf("len(delivered) = %d, want 1", len(ctx.delivered))
	}
}

func TestSelectiveRepeatTimeoutResendsOnlyTimedOutFrame(t *testing.T) {
	ctx := &fakeContext{
		events:      []dlsim.EventType{dlsim.Timeout},
		timedOutSeq: 4,
	}

	runScript(ctx, protocol.NewSelectiveRepeat(0))

	if len(ctx.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1 (selective repeat resends only the one timed-out frame)", len(ctx.sent))
	}
	if ctx.sent[0].Seq != 4 {
		t.Fatalf("sent[0].Seq = %d, want 4", ctx.sent[0].Seq)
	}
}
