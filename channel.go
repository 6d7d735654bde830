package dlsim

//
// Virtual channel: two independent FIFOs with stochastic loss and
// corruption, one per direction.
//
// This is the generalization of the teacher's Link/LinkFwd* machinery
// (goroutine-free here, since delivery is driven by the endpoint that
// owns the destination queue rather than by a background forwarder) to
// frames instead of IP packets: loss is decided with a uniform draw at
// transmit time, corruption with a second uniform draw at delivery time,
// and an injectable RNG keeps both decisions reproducible in tests.
//

import (
	"math/rand"
)

// RNG is the subset of *[rand.Rand] the channel and scheduler need. It is
// abstracted so tests can inject a deterministic sequence of draws.
type RNG interface {
	// Intn returns a pseudo-random number in [0,n).
	Intn(n int) int

	// Int63n returns a pseudo-random number in [0,n).
	Int63n(n int64) int64
}

var _ RNG = &rand.Rand{}

// RandomScale is the granularity of the channel's loss/corruption draws:
// thresholds are expressed as 10*pct, against a 0..1023 draw, exactly as
// the reference simulator compares against "rand() & 01777".
const RandomScale = 1024

// DefaultChannelCapacity is the minimum FIFO capacity the spec requires.
const DefaultChannelCapacity = 1000

// ChannelConfig configures a [Channel].
type ChannelConfig struct {
	// Capacity is the per-direction FIFO capacity. Zero selects
	// [DefaultChannelCapacity].
	Capacity int

	// PktLossThresh is the loss threshold in the 0..1023 draw space
	// (10*pct_loss, per spec.md).
	PktLossThresh int

	// CksumThresh is the corruption threshold in the 0..1023 draw space
	// (10*pct_cksum, per spec.md).
	CksumThresh int

	// RNG is the OPTIONAL random source. A seeded [*rand.Rand] is used
	// if nil.
	RNG RNG

	// Logger is the OPTIONAL logger. A no-op logger is used if nil.
	Logger Logger
}

// Channel is the virtual point-to-point link between endpoint 0 and
// endpoint 1. Frames transmitted by one endpoint become eligible for
// delivery to the other no earlier than the peer's next turn, since
// delivery only happens when the owning endpoint drains its FIFO.
//
// Channel itself keeps no statistics: loss/corruption outcomes are
// reported back to the caller, who is always an [Endpoint] recording
// them against its own [Stats], exactly as the reference simulator's
// per-process global counters are only ever touched by the process
// that called to_physical_layer or frametype.
type Channel struct {
	fifo          [2]chan Frame
	pktLossThresh int
	cksumThresh   int
	rng           RNG
	logger        Logger
}

// NewChannel creates a [Channel] from cfg.
func NewChannel(cfg ChannelConfig) *Channel {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &nullLogger{}
	}
	return &Channel{
		fifo: [2]chan Frame{
			make(chan Frame, capacity),
			make(chan Frame, capacity),
		},
		pktLossThresh: cfg.PktLossThresh,
		cksumThresh:   cfg.CksumThresh,
		rng:           rng,
		logger:        logger,
	}
}

// Transmit sends frame from endpoint fromID towards its peer. A uniform
// draw in [0,1024) decides loss; delivered reports whether the frame
// survived. [ErrQueueFull] is the only fatal outcome, returned when the
// peer's inbound FIFO has no room left (a full Capacity of unconsumed
// frames, which a conforming protocol never produces).
func (c *Channel) Transmit(fromID int, frame Frame) (delivered bool, err error) {
	toID := 1 - fromID
	k := int(c.rng.Int63n(RandomScale))
	if k < c.pktLossThresh {
		c.logger.Debugf("dlsim: channel: frame lost kind=%s seq=%d ack=%d", frame.Kind, frame.Seq, frame.Ack)
		return false, nil
	}
	select {
	case c.fifo[toID] <- frame:
		c.logger.Debugf("dlsim: channel: %d->%d frame kind=%s seq=%d ack=%d", fromID, toID, frame.Kind, frame.Seq, frame.Ack)
		return true, nil
	default:
		return false, ErrQueueFull
	}
}

// Pending reports whether endpoint id has at least one frame waiting.
func (c *Channel) Pending(id int) bool {
	return len(c.fifo[id]) > 0
}

// TryReceive non-blockingly dequeues the next frame destined for
// endpoint id, classifying it as FrameArrival or CksumErr via a second
// uniform draw. ok is false if no frame is currently queued.
func (c *Channel) TryReceive(id int) (frame Frame, event EventType, ok bool) {
	select {
	case f := <-c.fifo[id]:
		k := int(c.rng.Int63n(RandomScale))
		if k < c.cksumThresh {
			return f, CksumErr, true
		}
		return f, FrameArrival, true
	default:
		return Frame{}, NoEvent, false
	}
}
