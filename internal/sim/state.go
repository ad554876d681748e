package sim

import (
	"sync"
	"sync/atomic"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// State is the shared simulation state: cumulative and daily statistics
// behind one mutex, the simulated clock, and the three broadcast signals
// the director fans out (new day, shift open, shift close).
//
// All statistics mutation goes through WithStatsLock so updates from many
// concurrent agents are linearized.  The current minute is additionally
// kept in an atomic so agents can poll the clock without taking the lock;
// within a day the minute only increases, which makes stale reads harmless
// for polling, but readers must not assume atomicity across the reset to
// zero at a day boundary.
type State struct {
	mu    sync.Mutex
	stats model.Stats

	day    atomic.Int64
	minute atomic.Int64

	dayStart   *Signal // posted population-wide at every day start
	shiftOpen  *Signal // posted population-wide at shift open
	shiftClose *Signal // posted once per operator at shift close
}

// NewState returns a State sized for the given number of services and
// seats, with zeroed statistics and no pending signals.
func NewState(services, seats int) *State {
	return &State{
		stats: model.Stats{
			Services: make([]model.ServiceStats, services),
			Today:    model.NewDailyStats(services, seats),
		},
		dayStart:   NewSignal(),
		shiftOpen:  NewSignal(),
		shiftClose: NewSignal(),
	}
}

// WithStatsLock runs fn with exclusive access to the statistics.  fn must
// not block: the stats lock is never held across a sleep, a signal wait or
// a seat-table operation.
func (st *State) WithStatsLock(fn func(*model.Stats)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.stats)
}

// Snapshot returns a deep copy of the statistics plus the clock, safe to
// serialize while agents keep mutating.
func (st *State) Snapshot() model.Stats {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := st.stats
	out.Services = append([]model.ServiceStats(nil), st.stats.Services...)
	out.Today.Services = append([]model.ServiceStats(nil), st.stats.Today.Services...)
	out.Today.ServedBySeat = append([]int(nil), st.stats.Today.ServedBySeat...)
	out.Day = int(st.day.Load())
	out.Minute = int(st.minute.Load())
	return out
}

// Minute returns the current minute of day without taking the stats lock.
func (st *State) Minute() int { return int(st.minute.Load()) }

// Day returns the current simulated day, starting at 1.
func (st *State) Day() int { return int(st.day.Load()) }

// AdvanceMinute moves the clock forward one minute and returns the new
// minute of day.  Only the director calls it; the wrap to zero happens in
// StartDay at the day boundary.
func (st *State) AdvanceMinute() int {
	return int(st.minute.Add(1))
}

// StartDay resets the clock to minute zero of the given day.
func (st *State) StartDay(day int) {
	st.day.Store(int64(day))
	st.minute.Store(0)
}

// ResetDaily zeroes today's counters under the stats lock.  Called by the
// director at every day boundary after the report is taken.
func (st *State) ResetDaily() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Today.Reset()
}

// RecordSuccess books one completed request: served count, wait and
// service time sums, and the per-seat tally, on both the cumulative and
// the daily counters.
func (st *State) RecordSuccess(serviceID int, wait, service float64, seat int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	add := func(s *model.ServiceStats) {
		s.Served++
		s.TotalRequests++
		s.TotalWaitTime += wait
		s.TotalServiceTime += service
	}
	add(&st.stats.Global)
	add(&st.stats.Services[serviceID])
	add(&st.stats.Today.Global)
	add(&st.stats.Today.Services[serviceID])
	if seat >= 0 && seat < len(st.stats.Today.ServedBySeat) {
		st.stats.Today.ServedBySeat[seat]++
	}
}

// RecordFailure books one abandoned or refused request.
func (st *State) RecordFailure(serviceID int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	add := func(s *model.ServiceStats) {
		s.Failed++
		s.TotalRequests++
	}
	add(&st.stats.Global)
	add(&st.stats.Services[serviceID])
	add(&st.stats.Today.Global)
	add(&st.stats.Today.Services[serviceID])
}

// RecordLate counts one customer still queued at shift close.  Customers
// call it at most once per day; the total feeds the explosion guard.
func (st *State) RecordLate() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Today.LateUsers++
}

// RecordActiveOperator counts an operator that took a seat today.
func (st *State) RecordActiveOperator() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Today.ActiveOperators++
}

// RecordPause counts one operator break.
func (st *State) RecordPause() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Today.Pauses++
}

// DayStart, ShiftOpen and ShiftClose expose the broadcast signals to the
// agents and the director.
func (st *State) DayStart() *Signal   { return st.dayStart }
func (st *State) ShiftOpen() *Signal  { return st.shiftOpen }
func (st *State) ShiftClose() *Signal { return st.shiftClose }
