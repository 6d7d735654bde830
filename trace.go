package dlsim

//
// Structured tracing: one tagged line per tick/frame/timer event, the
// generalization of the reference simulator's XXX0/XM01/XQF*/XRC1-style
// log lines, emitted as structured fields through [Logger] instead of
// fixed-width fprintf columns.
//

import "encoding/binary"

// Tracer emits structured trace events for one endpoint (or "main", the
// scheduler) through a [Logger].
type Tracer struct {
	logger Logger
	who    string
}

// NewTracer creates a [Tracer] tagging every line with who (e.g. "M0",
// "M1", or "main").
func NewTracer(logger Logger, who string) *Tracer {
	if logger == nil {
		logger = nullLogger{}
	}
	return &Tracer{logger: logger, who: who}
}

// payloadNumber extracts the monotone counter from a packet for tracing.
func payloadNumber(p Packet) uint32 {
	return binary.BigEndian.Uint32(p.Data[:])
}

// Sent traces a frame handed to the channel.
func (t *Tracer) Sent(tick Tick, f Frame) {
	t.logger.Debugf("dlsim: tick=%d who=%s --> kind=%s seq=%d ack=%d payload=%d",
		tick, t.who, f.Kind, f.Seq, f.Ack, payloadNumber(f.Info))
}

// Received traces a frame taken off the inbound FIFO, good or bad.
func (t *Tracer) Received(tick Tick, f Frame, event EventType) {
	t.logger.Debugf("dlsim: tick=%d who=%s <-- kind=%s seq=%d ack=%d payload=%d event=%s",
		tick, t.who, f.Kind, f.Seq, f.Ack, payloadNumber(f.Info), event)
}

// TimedOut traces a data-frame timeout.
func (t *Tracer) TimedOut(tick Tick, seq uint32) {
	t.logger.Infof("dlsim: tick=%d who=%s timeout for frame %d", tick, t.who, seq)
}

// AckTimedOut traces an ack-timer expiration.
func (t *Tracer) AckTimedOut(tick Tick) {
	t.logger.Infof("dlsim: tick=%d who=%s ack timeout", tick, t.who)
}

// Periodic traces a periodic progress line.
func (t *Tracer) Periodic(tick Tick, stats *Stats) {
	t.logger.Infof("dlsim: tick=%d who=%s data_sent=%d payloads_accepted=%d timeouts=%d",
		tick, t.who, stats.DataSent, stats.PayloadsAccepted, stats.Timeouts)
}

// Deadlock traces deadlock detection.
func (t *Tracer) Deadlock(tick Tick) {
	t.logger.Warnf("dlsim: tick=%d A deadlock has been detected", tick)
}
