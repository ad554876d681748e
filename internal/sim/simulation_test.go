package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// e2eConfig is a one-day scenario small and fast enough for tests: a
// single service, operators pinned to it, and a fixed customer plan so the
// outcome counters are exact.
func e2eConfig() Config {
	return Config{
		Operators:        2,
		Customers:        2,
		Seats:            4,
		Days:             1,
		ShiftOpen:        60,
		ShiftClose:       1380,
		MinuteDuration:   200 * time.Microsecond,
		Seed:             11,
		Services:         []model.Service{{ID: 0, Name: "lettere", Duration: 1}},
		OperatorServices: []int{0},
		Planner:          &fixedPlanner{visit: true, itinerary: []int{0}, walkIn: 120},
	}
}

func waitForDay(t *testing.T, s *Simulation, day int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if d, _ := s.Clock(); d >= day {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("day %d never started", day)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSimulationServesEveryCustomer(t *testing.T) {
	s, err := New(e2eConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := s.Stats()
	if stats.Global.Served != 2 || stats.Global.Failed != 0 || stats.Global.TotalRequests != 2 {
		t.Fatalf("global = %+v", stats.Global)
	}
	if stats.Global.TotalServiceTime <= 0 {
		t.Fatalf("no service time recorded")
	}

	reports := s.Reports()
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	rep := reports[0]
	if rep.Day != 1 || rep.Global.Served != 2 || rep.LateUsers != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.ActiveOperators != 2 {
		t.Fatalf("active operators = %d, want 2", rep.ActiveOperators)
	}
	servedAtSeats := 0
	for _, n := range rep.ServedBySeat {
		servedAtSeats += n
	}
	if servedAtSeats != 2 {
		t.Fatalf("served by seat sums to %d, want 2", servedAtSeats)
	}
}

func TestSimulationLeavesNoPermitBehind(t *testing.T) {
	s, err := New(e2eConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n := s.state.DayStart().Pending(); n != 0 {
		t.Fatalf("%d day-start permits left over", n)
	}
	if n := s.state.ShiftOpen().Pending(); n != 0 {
		t.Fatalf("%d shift-open permits left over", n)
	}
	if n := s.state.ShiftClose().Pending(); n != 0 {
		t.Fatalf("%d shift-close permits left over", n)
	}
}

func TestSimulationStayHomeStillBalancesBroadcasts(t *testing.T) {
	cfg := e2eConfig()
	cfg.Planner = &fixedPlanner{visit: false}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats := s.Stats(); stats.Global.TotalRequests != 0 {
		t.Fatalf("stay-home customers produced requests: %+v", stats.Global)
	}
	if n := s.state.ShiftOpen().Pending(); n != 0 {
		t.Fatalf("%d shift-open permits left by stay-home customers", n)
	}
}

func TestSimulationFailsWhenServiceNotOffered(t *testing.T) {
	cfg := e2eConfig()
	cfg.Customers = 1
	cfg.Services = []model.Service{
		{ID: 0, Name: "lettere", Duration: 1},
		{ID: 1, Name: "pacchi", Duration: 1},
	}
	// Operators stay pinned to service 0; the customer wants service 1.
	cfg.Planner = &fixedPlanner{visit: true, itinerary: []int{1}, walkIn: 120}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := s.Stats()
	if stats.Global.Served != 0 || stats.Global.Failed != 1 {
		t.Fatalf("global = %+v", stats.Global)
	}
	if stats.Services[1].Failed != 1 {
		t.Fatalf("service 1 = %+v", stats.Services[1])
	}
	if rep := s.Reports()[0]; rep.LateUsers != 0 {
		t.Fatalf("an unoffered service counted a late customer: %+v", rep)
	}
}

func TestSimulationLateCustomerAbandonsDay(t *testing.T) {
	cfg := e2eConfig()
	cfg.Operators = 1
	cfg.Customers = 2
	cfg.Seats = 1
	cfg.ShiftClose = 700
	cfg.Services = []model.Service{{ID: 0, Name: "conti", Duration: 200}}
	// Both walk in an hour before closing: one gets the only seat and is
	// served to completion past close (the service always outlasts the
	// remaining hour), the other is still queued when the shift ends.
	cfg.Planner = &fixedPlanner{visit: true, itinerary: []int{0}, walkIn: 640}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	stats := s.Stats()
	if stats.Global.Served != 1 || stats.Global.Failed != 1 {
		t.Fatalf("global = %+v", stats.Global)
	}
	rep := s.Reports()[0]
	if rep.LateUsers != 1 {
		t.Fatalf("late users = %d, want 1", rep.LateUsers)
	}
}

func TestSimulationExplosionAbortsBeforeReporting(t *testing.T) {
	cfg := e2eConfig()
	cfg.ExplodeMax = 1
	cfg.Planner = &fixedPlanner{visit: false}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	waitForDay(t, s, 1)
	s.state.WithStatsLock(func(st *model.Stats) { st.Today.LateUsers = 5 })

	select {
	case err := <-done:
		if !errors.Is(err, ErrExploded) {
			t.Fatalf("run returned %v, want ErrExploded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not abort")
	}
	if got := len(s.Reports()); got != 0 {
		t.Fatalf("%d reports emitted by an exploded day", got)
	}
}

func TestSimulationAddCustomersJoinNextDay(t *testing.T) {
	cfg := e2eConfig()
	cfg.Days = 2
	cfg.Operators = 1
	cfg.Customers = 0

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	waitForDay(t, s, 1)
	total, err := s.AddCustomers(2)
	if err != nil {
		t.Fatalf("add customers: %v", err)
	}
	if total != 3 { // operator plus the two new customers
		t.Fatalf("total = %d, want 3", total)
	}

	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	reports := s.Reports()
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Global.Served != 0 {
		t.Fatalf("day 1 served %d customers that had not joined yet", reports[0].Global.Served)
	}
	if reports[1].Global.Served != 2 {
		t.Fatalf("day 2 served = %d, want 2", reports[1].Global.Served)
	}
	if _, customers := s.Population(); customers != 2 {
		t.Fatalf("population customers = %d, want 2", customers)
	}

	if _, err := s.AddCustomers(1); !errors.Is(err, ErrSimulationDone) {
		t.Fatalf("add after finish returned %v, want ErrSimulationDone", err)
	}
	if _, err := s.AddCustomers(0); err == nil {
		t.Fatalf("non-positive count accepted")
	}
}

func TestSimulationCancellation(t *testing.T) {
	cfg := e2eConfig()
	cfg.Days = 1000

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitForDay(t, s, 1)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop on cancellation")
	}
}
