package sim

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// Director drives simulated time.  One tick is one configured minute; at
// each day start it reassigns seats, resets the daily counters' epoch and
// broadcasts "new day" to the whole active population, at shift open and
// close it broadcasts the matching signals, and at each day end it applies
// the explosion guard, emits the day report and resets the daily stats.
type Director struct {
	cfg   *Config
	state *State
	seats *SeatTable
	pop   *Population
	rng   *rand.Rand

	// report receives the frozen end-of-day report after each completed
	// day.  It runs on the director goroutine and must not block for long.
	report func(model.DayReport)
}

// NewDirector wires a director over the shared state, seat table and
// population register.  report may be nil.
func NewDirector(cfg *Config, state *State, seats *SeatTable, pop *Population, rng *rand.Rand, report func(model.DayReport)) *Director {
	return &Director{cfg: cfg, state: state, seats: seats, pop: pop, rng: rng, report: report}
}

// Run executes the configured number of days and returns nil on normal
// completion, ErrExploded when the late-customer guard trips at a day
// boundary, or the context error when cancelled mid-run.
func (d *Director) Run(ctx context.Context) error {
	for day := 1; day <= d.cfg.Days; day++ {
		d.beginDay(day)
		for minute := 1; minute < MinutesPerDay; minute++ {
			if err := sleepCtx(ctx, d.cfg.MinuteDuration); err != nil {
				return err
			}
			d.state.AdvanceMinute()
			switch minute {
			case d.cfg.ShiftOpen:
				n := d.pop.Total()
				d.state.ShiftOpen().Post(n)
				log.Printf("director: day %d shift open at %s (%d permits)", day, ClockHHMM(minute), n)
			case d.cfg.ShiftClose:
				n := d.pop.Operators()
				d.state.ShiftClose().Post(n)
				log.Printf("director: day %d shift close at %s (%d permits)", day, ClockHHMM(minute), n)
			}
		}
		if err := d.endDay(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

// beginDay activates any customers queued for admission, gives every seat
// a fresh random service with cleared occupancy, resets the clock and
// releases the whole population with one day-start permit each.
func (d *Director) beginDay(day int) {
	d.pop.Activate()
	d.seats.Reassign(d.rng, len(d.cfg.Services))
	d.state.StartDay(day)
	n := d.pop.Total()
	d.state.DayStart().Post(n)
	log.Printf("director: day %d starting (%d agents)", day, n)
}

// endDay applies the explosion guard, then freezes and publishes the day
// report and resets the daily counters.  The guard runs first: an exploded
// simulation terminates before the next day-start broadcast, so no agent
// is released into a day that will not happen.
func (d *Director) endDay(ctx context.Context, day int) error {
	var late int
	d.state.WithStatsLock(func(s *model.Stats) { late = s.Today.LateUsers })
	if late > d.cfg.ExplodeMax {
		log.Printf("director: day %d ended with %d customers still waiting (max %d), aborting", day, late, d.cfg.ExplodeMax)
		return ErrExploded
	}

	rep := d.freezeReport(day)
	d.state.ResetDaily()
	d.logReport(rep)
	if d.report != nil {
		d.report(rep)
	}
	return ctx.Err()
}

// freezeReport copies today's counters into an immutable report.
func (d *Director) freezeReport(day int) model.DayReport {
	var rep model.DayReport
	d.state.WithStatsLock(func(s *model.Stats) {
		rep = model.DayReport{
			Day:             day,
			Global:          s.Today.Global,
			Services:        append([]model.ServiceStats(nil), s.Today.Services...),
			ActiveOperators: s.Today.ActiveOperators,
			Pauses:          s.Today.Pauses,
			LateUsers:       s.Today.LateUsers,
			ServedBySeat:    append([]int(nil), s.Today.ServedBySeat...),
		}
	})
	return rep
}

func (d *Director) logReport(rep model.DayReport) {
	log.Printf("director: day %d report: served=%d failed=%d requests=%d late=%d pauses=%d active_operators=%d",
		rep.Day, rep.Global.Served, rep.Global.Failed, rep.Global.TotalRequests, rep.LateUsers, rep.Pauses, rep.ActiveOperators)
	for i, s := range rep.Services {
		if s.TotalRequests == 0 {
			continue
		}
		log.Printf("director:   service %d (%s): served=%d failed=%d avg_wait=%.1fm avg_service=%.1fm",
			i, d.cfg.Services[i].Name, s.Served, s.Failed, s.AvgWait(), s.AvgService())
	}
}

// ClockHHMM formats a minute of day as HH:MM.
func ClockHHMM(minute int) string {
	return time.Time{}.Add(time.Duration(minute) * time.Minute).Format("15:04")
}

// sleepCtx sleeps for d or returns early with the context error.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
