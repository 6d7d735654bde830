package dlsim

//
// Engine: the scheduler that drives two endpoints through a shared
// virtual channel. Grounded on the reference simulator's
// start_simulator/terminate (global tick, per-endpoint OK/NOTHING
// handshake, hanging-tick deadlock detection) and on
// golang.org/x/sync/errgroup's use in m-lab-etl/active/poller.go for
// supervising a fixed set of worker goroutines and surfacing the first
// fatal error any of them hits.
//

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// DefaultDelta is the simulated-time advance per scheduler turn. It
// must stay greater than [DefaultNRTimers] so that the per-tick offset
// [TimerBank.StartTimer] applies to fan out multiple timers started in
// one wait cycle never reaches into the following tick's deadline.
const DefaultDelta Tick = 10

// DefaultTimeoutInterval is used when an [EngineConfig] doesn't specify
// one; callers driven by the CLI always set this explicitly from the
// tm_out positional argument.
const DefaultTimeoutInterval Tick = 20

// EngineConfig configures a new [Engine]. MaxEvents and TimeoutInterval
// are in external units (scheduler turns), matching the CLI's events
// and timeout arguments; the engine scales both by Delta internally so
// that a turn leaves room for several distinct sub-tick timer
// deadlines, exactly as the reference converts tm_out and events with
// last_tick = DELTA*events and timeout_interval = DELTA*tm_out.
type EngineConfig struct {
	// MaxEvents is the simulation length in scheduler turns. Zero means
	// unbounded (run until deadlock or a fatal error).
	MaxEvents int

	// TimeoutInterval is the data-frame retransmission timeout, in
	// scheduler turns. Deadlock is declared once both endpoints have
	// been idle for 3*TimeoutInterval. Zero selects
	// [DefaultTimeoutInterval].
	TimeoutInterval Tick

	// Delta is the simulated-time advance per scheduler turn. Zero
	// selects [DefaultDelta].
	Delta Tick

	// PktLossThresh and CksumThresh are channel thresholds in the
	// 0..1023 draw space (10*pct, per spec.md).
	PktLossThresh int
	CksumThresh   int

	// ChannelCapacity overrides the per-direction FIFO capacity. Zero
	// selects [DefaultChannelCapacity].
	ChannelCapacity int

	// NRTimers overrides the timer bank's slot count. Zero selects
	// [DefaultNRTimers].
	NRTimers uint32

	// Modulus, if non-zero, overrides the protocol's sequence-number
	// modulus used for timer-slot indexing (MAX_SEQ+1).
	Modulus uint32

	// AckTimerDivisor, if non-zero, overrides [DefaultAckTimerDivisor].
	AckTimerDivisor Tick

	// RNG is the OPTIONAL shared random source driving both the
	// channel's loss/corruption draws and the scheduler's turn order.
	// A seeded [*rand.Rand] is used if nil.
	RNG RNG

	// Logger is the OPTIONAL logger threaded through the channel, the
	// endpoints, and the scheduler's own trace lines.
	Logger Logger
}

// Result summarizes one completed [Engine.Run].
type Result struct {
	// Stats holds each endpoint's counters, indexed by endpoint id.
	Stats [2]*Stats

	// Accepted holds the number of payloads each endpoint's network
	// layer accepted in order, indexed by endpoint id.
	Accepted [2]int

	// Ticks is the simulated clock value when the run stopped, in
	// internal units: divide by Delta for the turn count the CLI's
	// events argument is expressed in.
	Ticks Tick

	// Deadlocked reports whether the run stopped because both
	// endpoints were idle for 3*TimeoutInterval, rather than reaching
	// MaxEvents.
	Deadlocked bool
}

// Engine wires a [Channel], two [NetworkLayer]s, two [TimerBank]s and
// two [Endpoint]s together and schedules ticks between them.
type Engine struct {
	channel   *Channel
	nets      [2]*NetworkLayer
	timers    [2]*TimerBank
	stats     [2]*Stats
	tracers   [2]*Tracer
	endpoints [2]*Endpoint

	rng             RNG
	delta           Tick
	timeoutInterval Tick
	maxEvents       int
	logger          Logger
	mainTracer      *Tracer
}

// NewEngine builds an [Engine] from cfg. The two endpoints are created
// but idle; call [Engine.Run] with the protocols to drive them.
func NewEngine(cfg EngineConfig) *Engine {
	delta := cfg.Delta
	if delta == 0 {
		delta = DefaultDelta
	}
	timeout := cfg.TimeoutInterval
	if timeout == 0 {
		timeout = DefaultTimeoutInterval
	}
	timeout *= delta // external units (turns) to internal ticks
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nullLogger{}
	}

	channel := NewChannel(ChannelConfig{
		Capacity:      cfg.ChannelCapacity,
		PktLossThresh: cfg.PktLossThresh,
		CksumThresh:   cfg.CksumThresh,
		RNG:           rng,
		Logger:        logger,
	})

	e := &Engine{
		channel:         channel,
		rng:             rng,
		delta:           delta,
		timeoutInterval: timeout,
		maxEvents:       cfg.MaxEvents,
		logger:          logger,
		mainTracer:      NewTracer(logger, "main"),
	}

	for i := 0; i < 2; i++ {
		e.nets[i] = NewNetworkLayer()
		e.timers[i] = NewTimerBank(cfg.NRTimers, timeout)
		if cfg.Modulus > 0 {
			e.timers[i].SetModulus(cfg.Modulus)
		}
		if cfg.AckTimerDivisor > 0 {
			e.timers[i].SetAckTimerDivisor(cfg.AckTimerDivisor)
		}
		e.stats[i] = NewStats()
		e.tracers[i] = NewTracer(logger, fmt.Sprintf("M%d", i))
		e.endpoints[i] = newEndpoint(i, channel, e.nets[i], e.timers[i], e.stats[i], e.tracers[i])
	}

	return e
}

// Endpoint exposes endpoint id (0 or 1) as a [Context], for callers
// that want to drive a [Protocol] by hand instead of through
// [Engine.Run] (chiefly tests).
func (e *Engine) Endpoint(id int) Context {
	return e.endpoints[id]
}

// Stats returns endpoint id's counters.
func (e *Engine) Stats(id int) *Stats {
	return e.stats[id]
}

// Run starts proc0 and proc1 on endpoints 0 and 1 respectively and
// schedules ticks between them until MaxEvents is reached, a deadlock
// is detected, one side hits a fatal protocol error, or ctx is
// cancelled. It always returns a [Result] reflecting whatever state was
// reached, even alongside a non-nil error.
func (e *Engine) Run(ctx context.Context, proc0, proc1 Protocol) (Result, error) {
	eg, gctx := errgroup.WithContext(ctx)
	protos := [2]Protocol{proc0, proc1}
	for i := range protos {
		i := i
		ep := e.endpoints[i]
		eg.Go(func() (err error) {
			defer close(ep.done)
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(haltEndpoint); ok {
						return
					}
					panic(r)
				}
			}()
			// The first granted turn drives the protocol from its start
			// to its first WaitForEvent call, which is where the turn's
			// OK is sent. The reference worker behaves the same way: it
			// runs from fork to its first wait before main ever hears
			// from it.
			tick, ok := <-ep.cue
			if !ok {
				return nil
			}
			ep.tick = tick
			ep.pendingReply = true
			protos[i].Run(ep)
			return nil
		})
	}

	tick, deadlocked, schedErr := e.schedule(gctx)

	close(e.endpoints[0].cue)
	close(e.endpoints[1].cue)
	waitErr := eg.Wait()

	result := e.result(tick, deadlocked)

	if schedErr != nil {
		return result, schedErr
	}
	if err := e.endpoints[0].err; err != nil {
		return result, err
	}
	if err := e.endpoints[1].err; err != nil {
		return result, err
	}
	return result, waitErr
}

// schedule runs the tick loop: each turn it advances the clock by
// delta, picks one endpoint uniformly at random, grants it the turn,
// and checks for deadlock. It returns once the clock reaches
// MaxEvents turns, a deadlock fires, ctx is cancelled, or an endpoint
// stops with a fatal error.
func (e *Engine) schedule(ctx context.Context) (tick Tick, deadlocked bool, err error) {
	var hanging [2]Tick
	lastTick := Tick(e.maxEvents) * e.delta

	for e.maxEvents == 0 || tick < lastTick {
		select {
		case <-ctx.Done():
			return tick, false, ctx.Err()
		default:
		}

		id := e.rng.Intn(2)
		tick += e.delta

		reply, alive := e.offer(id, tick)
		if !alive {
			return tick, false, e.endpoints[id].err
		}
		if reply == ReplyOK {
			hanging[id] = 0
		} else {
			hanging[id] += e.delta
		}

		if hanging[0] >= 3*e.timeoutInterval && hanging[1] >= 3*e.timeoutInterval {
			e.mainTracer.Deadlock(tick)
			return tick, true, ErrDeadlock
		}

		if e.timeoutInterval > 0 && tick%e.timeoutInterval == 0 {
			e.tracers[0].Periodic(tick, e.stats[0])
			e.tracers[1].Periodic(tick, e.stats[1])
		}
	}
	return tick, false, nil
}

// offer grants endpoint id a turn at tick and blocks until the
// endpoint has both classified the turn and, if it produced an event,
// finished reacting to it — the reply only arrives once the protocol
// is back inside WaitForEvent. alive is false if the endpoint's
// goroutine stopped instead of replying, in which case its recorded
// error (if any) explains why.
func (e *Engine) offer(id int, tick Tick) (reply ReplyWord, alive bool) {
	ep := e.endpoints[id]
	select {
	case ep.cue <- tick:
	case <-ep.done:
		return 0, false
	}
	select {
	case reply = <-ep.reply:
		return reply, true
	case <-ep.done:
		return 0, false
	}
}

func (e *Engine) result(tick Tick, deadlocked bool) Result {
	return Result{
		Stats:      e.stats,
		Accepted:   [2]int{e.nets[0].Accepted(), e.nets[1].Accepted()},
		Ticks:      tick,
		Deadlocked: deadlocked,
	}
}
