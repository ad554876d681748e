package model

import "testing"

func TestServiceStatsAverages(t *testing.T) {
	var s ServiceStats
	if s.AvgWait() != 0 || s.AvgService() != 0 {
		t.Fatalf("averages over zero served must be zero")
	}

	s = ServiceStats{Served: 4, TotalWaitTime: 10, TotalServiceTime: 30}
	if got := s.AvgWait(); got != 2.5 {
		t.Fatalf("avg wait = %v, want 2.5", got)
	}
	if got := s.AvgService(); got != 7.5 {
		t.Fatalf("avg service = %v, want 7.5", got)
	}
}

func TestServiceStatsAdd(t *testing.T) {
	a := ServiceStats{Served: 1, Failed: 2, TotalWaitTime: 3, TotalServiceTime: 4, TotalRequests: 5}
	b := ServiceStats{Served: 10, Failed: 20, TotalWaitTime: 30, TotalServiceTime: 40, TotalRequests: 50}
	a.Add(b)
	want := ServiceStats{Served: 11, Failed: 22, TotalWaitTime: 33, TotalServiceTime: 44, TotalRequests: 55}
	if a != want {
		t.Fatalf("sum = %+v, want %+v", a, want)
	}
}

func TestDailyStatsReset(t *testing.T) {
	d := NewDailyStats(2, 3)
	d.Global.Served = 5
	d.Services[1].Failed = 2
	d.ActiveOperators = 4
	d.Pauses = 1
	d.LateUsers = 7
	d.ServedBySeat[2] = 9

	d.Reset()

	if d.Global.Served != 0 || d.Services[1].Failed != 0 {
		t.Fatalf("counters survived reset: %+v", d)
	}
	if d.ActiveOperators != 0 || d.Pauses != 0 || d.LateUsers != 0 {
		t.Fatalf("daily scalars survived reset: %+v", d)
	}
	if d.ServedBySeat[2] != 0 {
		t.Fatalf("seat tally survived reset: %v", d.ServedBySeat)
	}
	if len(d.Services) != 2 || len(d.ServedBySeat) != 3 {
		t.Fatalf("reset changed slice sizes")
	}
}
