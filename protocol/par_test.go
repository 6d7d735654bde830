package protocol_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/netlab/dlsim"
	"github.com/netlab/dlsim/protocol"
)

func TestParZeroLossNeverRetransmits(t *testing.T) {
	engine := dlsim.NewEngine(dlsim.EngineConfig{
		MaxEvents:       1000,
		TimeoutInterval: 20,
		RNG:             rand.New(rand.NewSource(1)),
	})

	result, err := engine.Run(context.Background(), protocol.NewParSender(), protocol.NewParReceiver())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats[0].DataRetransmitted != 0 {
		t.Fatalf("DataRetransmitted = %d, want 0 on a zero-loss channel", result.Stats[0].DataRetransmitted)
	}
	// each delivered payload costs one data frame and one ack round trip.
	if result.Accepted[1] == 0 {
		t.Fatal("receiver accepted zero payloads")
	}
}

func TestParRecoversFromLoss(t *testing.T) {
	engine := dlsim.NewEngine(dlsim.EngineConfig{
		MaxEvents:       3000,
		TimeoutInterval: 20,
		PktLossThresh:   300,
		RNG:             rand.New(rand.NewSource(5)),
	})

	result, err := engine.Run(context.Background(), protocol.NewParSender(), protocol.NewParReceiver())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats[0].DataRetransmitted == 0 {
		t.Fatal("DataRetransmitted = 0, want > 0 on a lossy channel")
	}
	if result.Accepted[1] == 0 {
		t.Fatal("receiver accepted zero payloads despite loss recovery")
	}
}
