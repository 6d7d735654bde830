package dlsim

//
// Stats & tracing: counters mirroring the reference simulator's
// print_statistics fields, plus a Prometheus mirror for consumers that
// want to scrape or assert on metrics instead of reading struct fields.
//

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stats accumulates counters for one endpoint's run. Construct with
// [NewStats]; the zero value is not ready to use because its Prometheus
// registry would be nil.
type Stats struct {
	mu sync.Mutex

	DataSent          int
	DataRetransmitted int
	DataLost          int
	DataNotLost       int
	GoodDataRecd      int
	CksumDataRecd     int

	AcksSent      int
	AcksLost      int
	AcksNotLost   int
	GoodAcksRecd  int
	CksumAcksRecd int

	NaksSent int

	PayloadsAccepted int
	Timeouts         int
	AckTimeouts      int

	registry  *prometheus.Registry
	sentVec   *prometheus.CounterVec
	lostVec   *prometheus.CounterVec
	keptVec   *prometheus.CounterVec
	recvVec   *prometheus.CounterVec
	accepted  prometheus.Counter
	retrans   prometheus.Counter
	timeouts  prometheus.Counter
	ackTmOuts prometheus.Counter
}

// NewStats creates a [Stats] with its own private Prometheus registry,
// so that running many [Engine]s side by side (as the test suite does)
// never collides on metric registration the way a package-global
// registry would.
func NewStats() *Stats {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Stats{
		registry: reg,
		sentVec: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dlsim_frames_sent_total",
			Help: "Frames handed to the channel for transmission, by kind.",
		}, []string{"kind"}),
		lostVec: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dlsim_frames_lost_total",
			Help: "Frames dropped by the channel's loss simulation, by kind.",
		}, []string{"kind"}),
		keptVec: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dlsim_frames_delivered_total",
			Help: "Frames that survived the channel's loss simulation, by kind.",
		}, []string{"kind"}),
		recvVec: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dlsim_frames_received_total",
			Help: "Frames received by an endpoint, by kind and checksum status.",
		}, []string{"kind", "status"}),
		accepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dlsim_payloads_accepted_total",
			Help: "Payloads delivered to the network layer in order.",
		}),
		retrans: factory.NewCounter(prometheus.CounterOpts{
			Name: "dlsim_data_retransmitted_total",
			Help: "Data frames sent while in retransmission mode.",
		}),
		timeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "dlsim_timeouts_total",
			Help: "Data-frame timer expirations.",
		}),
		ackTmOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "dlsim_ack_timeouts_total",
			Help: "Auxiliary ack timer expirations.",
		}),
	}
}

// Registry returns the private Prometheus registry backing this [Stats],
// so callers can Gather() it in tests or wire it into a metrics exporter.
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

// RecordSent records that a frame of kind was handed to the channel,
// and — if retransmitting is true — that it counts as a retransmission.
func (s *Stats) RecordSent(kind FrameKind, retransmitting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case FrameData:
		s.DataSent++
		if retransmitting {
			s.DataRetransmitted++
			s.retrans.Inc()
		}
	case FrameAck:
		s.AcksSent++
	case FrameNak:
		s.NaksSent++
	}
	s.sentVec.WithLabelValues(kind.String()).Inc()
}

// RecordLost records that a frame of kind was dropped by the channel.
func (s *Stats) RecordLost(kind FrameKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case FrameData:
		s.DataLost++
	case FrameAck:
		s.AcksLost++
	}
	s.lostVec.WithLabelValues(kind.String()).Inc()
}

// RecordNotLost records that a frame of kind survived the channel.
func (s *Stats) RecordNotLost(kind FrameKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case FrameData:
		s.DataNotLost++
	case FrameAck:
		s.AcksNotLost++
	}
	s.keptVec.WithLabelValues(kind.String()).Inc()
}

// RecordGoodRecv records an undamaged received frame of kind. A data
// frame also counts as a good ack received, since it carries a
// piggybacked acknowledgement in its Ack field.
func (s *Stats) RecordGoodRecv(kind FrameKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case FrameData:
		s.GoodDataRecd++
		s.GoodAcksRecd++
	case FrameAck:
		s.GoodAcksRecd++
	}
	s.recvVec.WithLabelValues(kind.String(), "good").Inc()
}

// RecordCksumRecv records a damaged received frame of kind.
func (s *Stats) RecordCksumRecv(kind FrameKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case FrameData:
		s.CksumDataRecd++
	case FrameAck:
		s.CksumAcksRecd++
	}
	s.recvVec.WithLabelValues(kind.String(), "cksum_err").Inc()
}

// RecordAccepted records one payload delivered to the network layer.
func (s *Stats) RecordAccepted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PayloadsAccepted++
	s.accepted.Inc()
}

// RecordTimeout records one data-frame timer expiration.
func (s *Stats) RecordTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Timeouts++
	s.timeouts.Inc()
}

// RecordAckTimeout records one auxiliary ack timer expiration.
func (s *Stats) RecordAckTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AckTimeouts++
	s.ackTmOuts.Inc()
}

// Efficiency returns the reference simulator's "payloads accepted /
// data frames sent" percentage, or 0 if no data was sent.
func (s *Stats) Efficiency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DataSent == 0 {
		return 0
	}
	return (100 * s.PayloadsAccepted) / s.DataSent
}
