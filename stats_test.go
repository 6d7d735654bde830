package dlsim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatsRecordSent(t *testing.T) {
	s := NewStats()
	s.RecordSent(FrameData, false)
	s.RecordSent(FrameData, true)
	s.RecordSent(FrameAck, false)
	s.RecordSent(FrameNak, false)

	if s.DataSent != 2 {
		t.Fatalf("DataSent = %d, want 2", s.DataSent)
	}
	if s.DataRetransmitted != 1 {
		t.Fatalf("DataRetransmitted = %d, want 1", s.DataRetransmitted)
	}
	if s.AcksSent != 1 {
		t.Fatalf("AcksSent = %d, want 1", s.AcksSent)
	}
	if s.NaksSent != 1 {
		t.Fatalf("NaksSent = %d, want 1", s.NaksSent)
	}
	if got := testutil.ToFloat64(s.retrans); got != 1 {
		t.Fatalf("retrans prometheus counter = %v, want 1", got)
	}
}

func TestStatsEfficiency(t *testing.T) {

	// testcase describes a test case for Stats.Efficiency.
	type testcase struct {
		name      string
		dataSent  int
		accepted  int
		expect    int
	}

	var testcases = []testcase{{
		name:   "no data sent yet",
		expect: 0,
	}, {
		name:     "every data frame accepted exactly once",
		dataSent: 4,
		accepted: 4,
		expect:   100,
	}, {
		name:     "half the data frames led to an accepted payload",
		dataSent: 4,
		accepted: 2,
		expect:   50,
	}}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStats()
			for i := 0; i < tc.dataSent; i++ {
				s.RecordSent(FrameData, false)
			}
			for i := 0; i < tc.accepted; i++ {
				s.RecordAccepted()
			}
			if got := s.Efficiency(); got != tc.expect {
				t.Fatalf("Efficiency() = %d, want %d", got, tc.expect)
			}
		})
	}
}

func TestStatsRecordRecv(t *testing.T) {
	s := NewStats()
	s.RecordGoodRecv(FrameData)
	s.RecordCksumRecv(FrameAck)
	s.RecordLost(FrameData)
	s.RecordNotLost(FrameAck)
	s.RecordTimeout()
	s.RecordAckTimeout()

	if s.GoodDataRecd != 1 || s.CksumAcksRecd != 1 {
		t.Fatalf("GoodDataRecd=%d CksumAcksRecd=%d, want 1,1", s.GoodDataRecd, s.CksumAcksRecd)
	}
	if s.DataLost != 1 || s.AcksNotLost != 1 {
		t.Fatalf("DataLost=%d AcksNotLost=%d, want 1,1", s.DataLost, s.AcksNotLost)
	}
	if s.Timeouts != 1 || s.AckTimeouts != 1 {
		t.Fatalf("Timeouts=%d AckTimeouts=%d, want 1,1", s.Timeouts, s.AckTimeouts)
	}

	families, err := s.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Fatal("Gather() returned no metric families")
	}
}
