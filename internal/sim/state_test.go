package sim

import (
	"testing"

	"github.com/iliyamo/post-office-sim/internal/model"
)

func TestStateRecordsBothEpochs(t *testing.T) {
	st := NewState(2, 3)
	st.RecordSuccess(1, 4, 8, 2)
	st.RecordFailure(0)
	st.RecordLate()
	st.RecordPause()
	st.RecordActiveOperator()

	snap := st.Snapshot()
	if snap.Global.Served != 1 || snap.Global.Failed != 1 || snap.Global.TotalRequests != 2 {
		t.Fatalf("global counters = %+v", snap.Global)
	}
	if snap.Services[1].Served != 1 || snap.Services[1].TotalWaitTime != 4 || snap.Services[1].TotalServiceTime != 8 {
		t.Fatalf("service 1 counters = %+v", snap.Services[1])
	}
	if snap.Services[0].Failed != 1 {
		t.Fatalf("service 0 counters = %+v", snap.Services[0])
	}
	if snap.Today.Global.Served != 1 || snap.Today.LateUsers != 1 || snap.Today.Pauses != 1 || snap.Today.ActiveOperators != 1 {
		t.Fatalf("daily counters = %+v", snap.Today)
	}
	if snap.Today.ServedBySeat[2] != 1 {
		t.Fatalf("served by seat = %v", snap.Today.ServedBySeat)
	}
}

func TestStateResetDailyKeepsCumulative(t *testing.T) {
	st := NewState(1, 1)
	st.RecordSuccess(0, 1, 2, 0)
	st.ResetDaily()

	snap := st.Snapshot()
	if snap.Today.Global.Served != 0 || snap.Today.ServedBySeat[0] != 0 {
		t.Fatalf("daily counters survived reset: %+v", snap.Today)
	}
	if snap.Global.Served != 1 {
		t.Fatalf("cumulative counters lost on reset: %+v", snap.Global)
	}
}

func TestStateSnapshotIsDeepCopy(t *testing.T) {
	st := NewState(1, 1)
	snap := st.Snapshot()
	snap.Services[0].Served = 99
	snap.Today.ServedBySeat[0] = 99

	fresh := st.Snapshot()
	if fresh.Services[0].Served != 0 || fresh.Today.ServedBySeat[0] != 0 {
		t.Fatalf("snapshot shares memory with live state")
	}
}

func TestStateClock(t *testing.T) {
	st := NewState(1, 1)
	st.StartDay(3)
	if st.Day() != 3 || st.Minute() != 0 {
		t.Fatalf("clock after StartDay = day %d minute %d", st.Day(), st.Minute())
	}
	for i := 0; i < 5; i++ {
		st.AdvanceMinute()
	}
	if st.Minute() != 5 {
		t.Fatalf("minute = %d after 5 advances", st.Minute())
	}
	st.StartDay(4)
	if st.Minute() != 0 {
		t.Fatalf("minute = %d after day rollover", st.Minute())
	}

	snap := st.Snapshot()
	if snap.Day != 4 || snap.Minute != 0 {
		t.Fatalf("snapshot clock = day %d minute %d", snap.Day, snap.Minute)
	}
}

func TestStateSignalsAreIndependent(t *testing.T) {
	st := NewState(1, 1)
	st.DayStart().Post(2)
	if st.ShiftOpen().Pending() != 0 || st.ShiftClose().Pending() != 0 {
		t.Fatalf("posting day-start leaked into other signals")
	}
	if got := st.DayStart().Pending(); got != 2 {
		t.Fatalf("day-start pending = %d, want 2", got)
	}
}

func TestDailyStatsAccumulate(t *testing.T) {
	var a, b model.ServiceStats
	a = model.ServiceStats{Served: 2, Failed: 1, TotalWaitTime: 10, TotalServiceTime: 20, TotalRequests: 3}
	b.Add(a)
	b.Add(a)
	if b.Served != 4 || b.TotalRequests != 6 || b.TotalWaitTime != 20 {
		t.Fatalf("accumulated = %+v", b)
	}
}
