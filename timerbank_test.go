package dlsim

import "testing"

func TestTimerBankStartStop(t *testing.T) {
	tb := NewTimerBank(4, 100)

	if got := tb.LowestTimer(); got != 0 {
		t.Fatalf("LowestTimer() before any start = %d, want 0", got)
	}

	tb.ResetOffset()
	tb.StartTimer(10, 0)
	tb.StartTimer(10, 1)

	if got := tb.LowestTimer(); got != 110 {
		t.Fatalf("LowestTimer() = %d, want 110", got)
	}

	seq, ok, err := tb.CheckTimers(109)
	if ok || err != nil {
		t.Fatalf("CheckTimers(109) = (%d,%v,%v), want not due yet", seq, ok, err)
	}

	seq, ok, err = tb.CheckTimers(110)
	if err != nil || !ok || seq != 0 {
		t.Fatalf("CheckTimers(110) = (%d,%v,%v), want (0,true,nil)", seq, ok, err)
	}

	if got := tb.LowestTimer(); got != 111 {
		t.Fatalf("LowestTimer() after first timer fired = %d, want 111", got)
	}
}

func TestTimerBankStartWithinOneWaitCycleGetsDistinctDeadlines(t *testing.T) {
	tb := NewTimerBank(8, 100)

	tb.ResetOffset()
	for seq := uint32(0); seq < 3; seq++ {
		tb.StartTimer(0, seq)
	}

	seen := make(map[Tick]bool)
	for i := 0; i < 3; i++ {
		deadline := tb.LowestTimer()
		seq, ok, err := tb.CheckTimers(Tick(100 + i))
		if err != nil || !ok {
			t.Fatalf("CheckTimers(%d) = (%d,%v,%v), want a due timer", 100+i, seq, ok, err)
		}
		if seen[deadline] {
			t.Fatalf("two timers shared deadline %d", deadline)
		}
		seen[deadline] = true
	}
}

func TestTimerBankStopIsIdempotent(t *testing.T) {
	tb := NewTimerBank(4, 100)
	tb.ResetOffset()
	tb.StartTimer(0, 2)
	tb.StopTimer(2)
	tb.StopTimer(2)

	if got := tb.LowestTimer(); got != 0 {
		t.Fatalf("LowestTimer() after stopping the only timer = %d, want 0", got)
	}
}

func TestTimerBankAckTimer(t *testing.T) {
	tb := NewTimerBank(4, 100)

	if tb.CheckAckTimer(1000) {
		t.Fatal("CheckAckTimer() fired before StartAckTimer was ever called")
	}

	tb.StartAckTimer(0)
	if tb.CheckAckTimer(49) {
		t.Fatal("CheckAckTimer(49) fired too early for a timeoutInterval=100, AUX=2 ack timer")
	}
	if !tb.CheckAckTimer(50) {
		t.Fatal("CheckAckTimer(50) did not fire at the expected deadline")
	}
	if tb.CheckAckTimer(50) {
		t.Fatal("CheckAckTimer fired twice for the same arm")
	}
}

func TestTimerBankModulusOverride(t *testing.T) {
	tb := NewTimerBank(4, 100)
	tb.SetModulus(8)
	tb.ResetOffset()

	tb.StartTimer(0, 1)
	tb.StartTimer(0, 5) // 1%8%4 == 1, 5%8%4 == 1: same slot, second overwrites first
	if got := tb.LowestTimer(); got == 0 {
		t.Fatal("LowestTimer() is zero after starting a timer")
	}

	seq, ok, err := tb.CheckTimers(tb.LowestTimer())
	if err != nil || !ok || seq != 5 {
		t.Fatalf("CheckTimers() = (%d,%v,%v), want (5,true,nil) since the second StartTimer overwrote the slot", seq, ok, err)
	}
}

func TestTimerBankImpossibleState(t *testing.T) {
	tb := NewTimerBank(4, 100)
	tb.ResetOffset()
	tb.StartTimer(0, 0)
	tb.ackTimer[0] = 0 // desync the cache from the slot array directly
	tb.lowestTimer = 50

	_, _, err := tb.CheckTimers(50)
	if err != ErrImpossibleTimerState {
		t.Fatalf("CheckTimers() err = %v, want ErrImpossibleTimerState", err)
	}
}
