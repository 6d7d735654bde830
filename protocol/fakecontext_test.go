package protocol_test

import (
	"encoding/binary"

	"github.com/netlab/dlsim"
)

// fakeContext is a hand-scripted [dlsim.Context] for unit-testing a
// single protocol's reaction to a fixed, known event sequence, without
// needing a full [dlsim.Engine] and its random channel draws. It plays
// the same role for a protocol test that a mocked collaborator plays in
// any table-driven Go test: exact, reproducible inputs, recorded outputs.
type fakeContext struct {
	id          int
	nextPayload uint32

	sent      []dlsim.Frame
	delivered []dlsim.Packet
	inbound   dlsim.Frame

	events   []dlsim.EventType
	eventIdx int

	timedOutSeq          uint32
	networkLayerEnabled  bool
	startedTimers        []uint32
	stoppedTimers        []uint32
	ackTimerStartedCount int
}

var _ dlsim.Context = &fakeContext{}

// fakeContextHalt is panicked by [fakeContext.WaitForEvent] once its
// scripted event list is exhausted, the same sentinel-panic idiom
// [Endpoint] uses to unwind a protocol's infinite loop.
type fakeContextHalt struct{}

func (c *fakeContext) ID() int { return c.id }

func (c *fakeContext) FromNetworkLayer() dlsim.Packet {
	var p dlsim.Packet
	binary.BigEndian.PutUint32(p.Data[:], c.nextPayload)
	c.nextPayload++
	return p
}

func (c *fakeContext) ToNetworkLayer(p dlsim.Packet) {
	c.delivered = append(c.delivered, p)
}

func (c *fakeContext) FromPhysicalLayer() dlsim.Frame {
	return c.inbound
}

func (c *fakeContext) ToPhysicalLayer(f dlsim.Frame) {
	c.sent = append(c.sent, f)
}

func (c *fakeContext) StartTimer(seq uint32) {
	c.startedTimers = append(c.startedTimers, seq)
}

func (c *fakeContext) StopTimer(seq uint32) {
	c.stoppedTimers = append(c.stoppedTimers, seq)
}

func (c *fakeContext) StartAckTimer() { c.ackTimerStartedCount++ }
func (c *fakeContext) StopAckTimer()  {}

func (c *fakeContext) EnableNetworkLayer()  { c.networkLayerEnabled = true }
func (c *fakeContext) DisableNetworkLayer() { c.networkLayerEnabled = false }

func (c *fakeContext) GetTimedOutSeqNr() uint32 { return c.timedOutSeq }

func (c *fakeContext) WaitForEvent() dlsim.EventType {
	if c.eventIdx >= len(c.events) {
		panic(fakeContextHalt{})
	}
	event := c.events[c.eventIdx]
	c.eventIdx++
	return event
}

// runScript runs p.Run(ctx) until ctx's scripted events are exhausted,
// then returns.
func runScript(ctx *fakeContext, p dlsim.Protocol) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(fakeContextHalt); ok {
				return
			}
			panic(r)
		}
	}()
	p.Run(ctx)
}
