package protocol_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/netlab/dlsim"
	"github.com/netlab/dlsim/protocol"
)

func TestOneBitDeliversBothDirectionsOnLossyCorruptChannel(t *testing.T) {
	engine := dlsim.NewEngine(dlsim.EngineConfig{
		MaxEvents:       2000,
		TimeoutInterval: 40,
		PktLossThresh:   200,
		CksumThresh:     200,
		RNG:             rand.New(rand.NewSource(3)),
	})

	result, err := engine.Run(context.Background(), protocol.NewOneBit(), protocol.NewOneBit())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Accepted[0] == 0 || result.Accepted[1] == 0 {
		t.Fatalf("Accepted = %v, want both endpoints > 0", result.Accepted)
	}
	if result.Stats[0].GoodAcksRecd == 0 || result.Stats[1].GoodAcksRecd == 0 {
		t.Fatal("piggybacked acks never arrived cleanly at one end")
	}
}
