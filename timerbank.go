package dlsim

//
// Timer bank: N independent data-frame timers plus one ack timer.
//

// DefaultNRTimers is the reference simulator's timer-bank size. It must
// stay greater than half the number of sequence numbers a protocol uses,
// and DELTA must stay greater than NRTimers so each timer set within one
// tick gets a distinct sub-tick deadline (see [TimerBank.StartTimer]).
const DefaultNRTimers = 8

// DefaultAckTimerDivisor is the reference simulator's AUX constant: the
// auxiliary ack timer fires after timeoutInterval/AUX ticks.
const DefaultAckTimerDivisor = 2

// TimerBank tracks one timer per outbound buffer slot plus a single
// auxiliary ack timer. The zero value is not ready to use; construct one
// with [NewTimerBank].
type TimerBank struct {
	nrTimers        uint32
	nseqs           uint32
	ackTimerDivisor Tick
	timeoutInterval Tick

	ackTimer []Tick   // per-slot deadline; 0 means inactive
	seqs     []uint32 // seq number last assigned to each slot

	lowestTimer Tick // cache of the minimum active deadline
	auxTimer    Tick // ack timer deadline; 0 means inactive
	offset      Tick // bumped per start so no two timers share a deadline
}

// NewTimerBank creates a [TimerBank] with nrTimers slots. If nrTimers is
// zero, [DefaultNRTimers] is used.
func NewTimerBank(nrTimers uint32, timeoutInterval Tick) *TimerBank {
	if nrTimers == 0 {
		nrTimers = DefaultNRTimers
	}
	return &TimerBank{
		nrTimers:        nrTimers,
		nseqs:           nrTimers,
		ackTimerDivisor: DefaultAckTimerDivisor,
		timeoutInterval: timeoutInterval,
		ackTimer:        make([]Tick, nrTimers),
		seqs:            make([]uint32, nrTimers),
	}
}

// SetModulus overrides the modulus used for seq%modulus slot indexing,
// mirroring the reference simulator's init_max_seqnr(MAX_SEQ+1) call.
func (tb *TimerBank) SetModulus(n uint32) {
	if n > 0 {
		tb.nseqs = n
	}
}

// SetAckTimerDivisor overrides AUX; the default is [DefaultAckTimerDivisor].
func (tb *TimerBank) SetAckTimerDivisor(d Tick) {
	if d > 0 {
		tb.ackTimerDivisor = d
	}
}

// ResetOffset clears the per-wait-cycle offset counter. Protocols call
// this (via the endpoint runtime) once per WaitForEvent invocation, not
// once per scheduler tick, so that a burst of StartTimer calls made
// while handling one event (e.g. Go-Back-N's timeout retransmission)
// still gets distinct deadlines.
func (tb *TimerBank) ResetOffset() {
	tb.offset = 0
}

// StartTimer arms the timer for seq, due at tick+timeoutInterval, offset
// by a monotonically increasing sub-tick amount so it never collides
// with another timer started in the same wait cycle.
func (tb *TimerBank) StartTimer(tick Tick, seq uint32) {
	idx := seq % tb.nseqs % tb.nrTimers
	tb.ackTimer[idx] = tick + tb.timeoutInterval + tb.offset
	tb.offset++
	tb.seqs[idx] = seq
	tb.recalc()
}

// StopTimer disarms the timer for seq. Idempotent.
func (tb *TimerBank) StopTimer(seq uint32) {
	idx := seq % tb.nseqs % tb.nrTimers
	tb.ackTimer[idx] = 0
	tb.recalc()
}

// StartAckTimer arms the auxiliary ack timer at timeoutInterval/AUX.
func (tb *TimerBank) StartAckTimer(tick Tick) {
	tb.auxTimer = tick + tb.timeoutInterval/tb.ackTimerDivisor
	tb.offset++
}

// StopAckTimer disarms the auxiliary ack timer. Idempotent.
func (tb *TimerBank) StopAckTimer() {
	tb.auxTimer = 0
}

// LowestTimer returns the cached minimum active data-frame deadline, or
// zero if no data-frame timer is armed.
func (tb *TimerBank) LowestTimer() Tick {
	return tb.lowestTimer
}

// CheckTimers returns the sequence number of the frame whose timer is
// due at tick, disarming that timer, or ok=false if none is due yet.
func (tb *TimerBank) CheckTimers(tick Tick) (seq uint32, ok bool, err error) {
	if tb.lowestTimer == 0 || tick < tb.lowestTimer {
		return 0, false, nil
	}
	for i := uint32(0); i < tb.nrTimers; i++ {
		if tb.ackTimer[i] == tb.lowestTimer {
			tb.ackTimer[i] = 0
			tb.recalc()
			return tb.seqs[i], true, nil
		}
	}
	return 0, false, ErrImpossibleTimerState
}

// CheckAckTimer reports whether the auxiliary ack timer is due at tick,
// disarming it if so.
func (tb *TimerBank) CheckAckTimer(tick Tick) bool {
	if tb.auxTimer > 0 && tick >= tb.auxTimer {
		tb.auxTimer = 0
		return true
	}
	return false
}

// recalc recomputes lowestTimer from scratch, mirroring the reference
// simulator's recalc_timers.
func (tb *TimerBank) recalc() {
	var t Tick
	first := true
	for i := uint32(0); i < tb.nrTimers; i++ {
		if tb.ackTimer[i] > 0 && (first || tb.ackTimer[i] < t) {
			t = tb.ackTimer[i]
			first = false
		}
	}
	if first {
		t = 0
	}
	tb.lowestTimer = t
}
