package dlsim

//
// Endpoint: per-side state plus the wait_for_event/pick_event loop.
//
// Grounded on the reference simulator's wait_for_event, pick_event and
// frametype (event classification and priority order) and on
// ooni-netem/link.go's linkForward for the goroutine/channel shape: a
// protocol's goroutine blocks reading its cue channel exactly the way
// linkForward blocks reading its inbound channel, and replies on a
// second channel instead of a pipe write. The reply for a turn is sent
// only once the protocol has finished reacting to that turn's event,
// which is the same discipline the reference worker follows: its
// wait_for_event writes the OK word for the previous event at the top
// of the next call, before blocking for a new tick.
//

// haltEndpoint is panicked by [Endpoint.WaitForEvent] when the engine
// closes the cue channel to stop a protocol goroutine. It is recovered
// by [Engine.Run], mirroring the standard library's own
// http.ErrAbortHandler convention for unwinding a handler goroutine
// without treating it as a crash.
type haltEndpoint struct{}

// Endpoint is one side (M0 or M1) of the simulated link. It implements
// [Context]; protocols are handed an *Endpoint and never see the
// [Engine], [Channel], or [TimerBank] directly.
type Endpoint struct {
	id      int
	channel *Channel
	net     *NetworkLayer
	timers  *TimerBank
	stats   *Stats
	tracer  *Tracer

	networkLayerEnabled bool
	lastFrame           Frame
	lastEvent           EventType
	timedOutSeq         uint32

	cue   chan Tick      // scheduler -> endpoint: "it's your turn at tick N"
	reply chan ReplyWord // endpoint -> scheduler, sent once the turn's work is done
	done  chan struct{}  // closed when the protocol goroutine exits

	// pendingReply is set when WaitForEvent returns an event to the
	// protocol: the OK for that turn is only sent on re-entry, after the
	// protocol has finished reacting, so the scheduler's handshake
	// brackets the whole turn.
	pendingReply bool

	tick Tick
	err  error
}

// newEndpoint creates an [Endpoint] wired to its collaborators. id must
// be 0 or 1.
func newEndpoint(id int, channel *Channel, net *NetworkLayer, timers *TimerBank, stats *Stats, tracer *Tracer) *Endpoint {
	return &Endpoint{
		id:      id,
		channel: channel,
		net:     net,
		timers:  timers,
		stats:   stats,
		tracer:  tracer,
		cue:     make(chan Tick),
		reply:   make(chan ReplyWord),
		done:    make(chan struct{}),
	}
}

var _ Context = &Endpoint{}

// ID implements [Context].
func (e *Endpoint) ID() int {
	return e.id
}

// FromNetworkLayer implements [Context].
func (e *Endpoint) FromNetworkLayer() Packet {
	return e.net.FromNetworkLayer()
}

// ToNetworkLayer implements [Context].
func (e *Endpoint) ToNetworkLayer(p Packet) {
	if err := e.net.ToNetworkLayer(p); err != nil {
		e.abort(err)
		return
	}
	e.stats.RecordAccepted()
}

// FromPhysicalLayer implements [Context].
func (e *Endpoint) FromPhysicalLayer() Frame {
	return e.lastFrame
}

// ToPhysicalLayer implements [Context]. Only a data frame sent while
// handling a [Timeout] event is counted as a retransmission; data
// frames re-sent in reaction to any other event (a damaged frame in
// P3, a nak in P6, P4's resend after every event) are counted as
// ordinary sends.
func (e *Endpoint) ToPhysicalLayer(f Frame) {
	retransmitting := f.Kind == FrameData && e.lastEvent == Timeout
	e.stats.RecordSent(f.Kind, retransmitting)
	e.tracer.Sent(e.tick, f)
	delivered, err := e.channel.Transmit(e.id, f)
	if err != nil {
		e.abort(err)
	}
	if delivered {
		e.stats.RecordNotLost(f.Kind)
	} else {
		e.stats.RecordLost(f.Kind)
	}
}

// StartTimer implements [Context].
func (e *Endpoint) StartTimer(seq uint32) {
	e.timers.StartTimer(e.tick, seq)
}

// StopTimer implements [Context].
func (e *Endpoint) StopTimer(seq uint32) {
	e.timers.StopTimer(seq)
}

// StartAckTimer implements [Context].
func (e *Endpoint) StartAckTimer() {
	e.timers.StartAckTimer(e.tick)
}

// StopAckTimer implements [Context].
func (e *Endpoint) StopAckTimer() {
	e.timers.StopAckTimer()
}

// EnableNetworkLayer implements [Context].
func (e *Endpoint) EnableNetworkLayer() {
	e.networkLayerEnabled = true
}

// DisableNetworkLayer implements [Context].
func (e *Endpoint) DisableNetworkLayer() {
	e.networkLayerEnabled = false
}

// GetTimedOutSeqNr implements [Context].
func (e *Endpoint) GetTimedOutSeqNr() uint32 {
	return e.timedOutSeq
}

// WaitForEvent implements [Context]. It first completes the previous
// turn's handshake, if one is still open, then blocks on the cue
// channel and classifies at most one event per granted tick, replying
// [ReplyNothing] for ticks that produce none and have no timer armed.
//
// The OK for an event-producing turn is deliberately NOT sent when the
// event is returned: it is sent here, on re-entry, after the protocol
// has finished reacting. The scheduler therefore blocks for the whole
// of a turn's work, which keeps execution strictly turn-based — only
// one of scheduler, endpoint 0, endpoint 1 ever runs at a time — so
// frames transmitted during a turn cannot reach the peer until the
// peer's own next turn, and seeded runs replay identically.
func (e *Endpoint) WaitForEvent() EventType {
	e.timers.ResetOffset()
	e.flushReply()
	for {
		tick, ok := <-e.cue
		if !ok {
			panic(haltEndpoint{})
		}
		e.tick = tick

		event := e.pickEvent(tick)
		if event == NoEvent {
			// A data-frame timer still armed counts as "has useful
			// work pending" for deadlock purposes even though no
			// event fired this tick.
			if e.timers.LowestTimer() > 0 {
				e.reply <- ReplyOK
			} else {
				e.reply <- ReplyNothing
			}
			continue
		}
		e.lastEvent = event
		e.pendingReply = true
		return event
	}
}

// flushReply completes the pending turn, if any, unblocking the
// scheduler's handshake.
func (e *Endpoint) flushReply() {
	if e.pendingReply {
		e.pendingReply = false
		e.reply <- ReplyOK
	}
}

// pickEvent classifies the single event (if any) available at tick, in
// the reference simulator's priority order: an expired ack timer first,
// then a frame arrival (good or damaged), then network-layer readiness,
// then an expired data-frame timer.
func (e *Endpoint) pickEvent(tick Tick) EventType {
	if e.timers.CheckAckTimer(tick) {
		e.stats.RecordAckTimeout()
		e.tracer.AckTimedOut(tick)
		return AckTimeout
	}

	if frame, event, ok := e.channel.TryReceive(e.id); ok {
		e.lastFrame = frame
		e.tracer.Received(tick, frame, event)
		switch event {
		case FrameArrival:
			e.stats.RecordGoodRecv(frame.Kind)
		case CksumErr:
			e.stats.RecordCksumRecv(frame.Kind)
		}
		return event
	}

	if e.networkLayerEnabled {
		return NetworkLayerReady
	}

	if seq, ok, err := e.timers.CheckTimers(tick); ok {
		e.timedOutSeq = seq
		e.stats.RecordTimeout()
		e.tracer.TimedOut(tick, seq)
		return Timeout
	} else if err != nil {
		e.abort(err)
	}

	return NoEvent
}

// abort records a fatal error and unwinds the protocol goroutine. The
// error surfaces to [Engine.Run]'s caller once the run stops.
func (e *Endpoint) abort(err error) {
	if e.err == nil {
		e.err = err
	}
	panic(haltEndpoint{})
}
