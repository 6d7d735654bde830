package protocol_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/netlab/dlsim"
	"github.com/netlab/dlsim/protocol"
)

func TestStopWaitReliableChannelDeliversEverything(t *testing.T) {
	engine := dlsim.NewEngine(dlsim.EngineConfig{
		MaxEvents:       500,
		TimeoutInterval: 20,
		RNG:             rand.New(rand.NewSource(1)),
	})

	result, err := engine.Run(context.Background(), protocol.NewStopWaitSender(), protocol.NewStopWaitReceiver())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Accepted[1] == 0 {
		t.Fatal("receiver accepted zero payloads on a reliable channel")
	}
	// stop-and-wait never arms a timer, so on a loss-free run there can
	// be no timeouts at all.
	if result.Stats[0].Timeouts != 0 || result.Stats[1].Timeouts != 0 {
		t.Fatalf("Timeouts = (%d,%d), want (0,0)", result.Stats[0].Timeouts, result.Stats[1].Timeouts)
	}
}
