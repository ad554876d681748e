package sim

import (
	"fmt"
	"time"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// MinutesPerDay is the length of one simulated day.
const MinutesPerDay = 24 * 60

// DayToMinutes converts whole simulated days to simulated minutes.
func DayToMinutes(days int) int { return days * MinutesPerDay }

// Config carries every knob of a simulation run.  Zero values are filled
// with the reference defaults by Normalize; Validate rejects combinations
// the core cannot run with.  The field names follow the reference
// configuration keys (see internal/config for the env mapping).
type Config struct {
	Operators int // operator agents started at launch
	Customers int // customer agents started at launch
	Seats     int // fixed seat table capacity
	Days      int // simulated days to run

	ShiftOpen  int // minute of day the counters open
	ShiftClose int // minute of day the counters close

	VisitMin int // a customer visits when rand(VisitMax) >= VisitMin
	VisitMax int

	MaxRequests int // itinerary length upper bound per customer per day
	ExplodeMax  int // late customers tolerated at a day boundary
	MaxPauses   int // operator breaks allowed per operator per day
	PauseProb   float64

	MinuteDuration time.Duration // wall time of one simulated minute
	Seed           int64

	Services []model.Service // offered services; IDs must be dense from 0

	// Planner overrides the random customer behavior (visit decision,
	// itinerary, walk-in time).  Nil selects the reference distributions.
	Planner Planner

	// OperatorServices optionally pins operator i to service
	// OperatorServices[i%len].  Empty means each operator picks a uniformly
	// random service for its lifetime.
	OperatorServices []int

	TicketTableSize int // in-flight tickets the dispenser can track
	MailboxSize     int // per-agent mailbox capacity

	Verbose bool // agent-level logging
}

// Normalize fills unset fields with the reference defaults.  Zero values
// are read as "unset", so a zero knob selects its default rather than
// zero itself; to disable operator breaks pass a negative PauseProb or
// MaxPauses, which normalizes to an effective zero.
func (c *Config) Normalize() {
	if c.Seats == 0 {
		c.Seats = 15
	}
	if c.Days == 0 {
		c.Days = 5
	}
	if c.ShiftOpen == 0 {
		c.ShiftOpen = 8 * 60
	}
	if c.ShiftClose == 0 {
		c.ShiftClose = 20 * 60
	}
	if c.VisitMax == 0 {
		c.VisitMin, c.VisitMax = 20, 100
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 10
	}
	if c.ExplodeMax == 0 {
		c.ExplodeMax = 30
	}
	if c.MaxPauses == 0 {
		c.MaxPauses = 3
	} else if c.MaxPauses < 0 {
		c.MaxPauses = 0
	}
	if c.PauseProb == 0 {
		c.PauseProb = 0.02
	} else if c.PauseProb < 0 {
		c.PauseProb = 0
	}
	if c.MinuteDuration == 0 {
		c.MinuteDuration = 50 * time.Millisecond
	}
	if len(c.Services) == 0 {
		c.Services = model.DefaultServices()
	}
	if c.TicketTableSize == 0 {
		c.TicketTableSize = 1000
	}
	if c.MailboxSize == 0 {
		c.MailboxSize = 64
	}
	if c.Planner == nil {
		c.Planner = &randomPlanner{cfg: c}
	}
}

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	if c.Operators < 0 || c.Customers < 0 {
		return fmt.Errorf("agent counts must be non-negative (operators=%d customers=%d)", c.Operators, c.Customers)
	}
	if c.Seats < 1 {
		return fmt.Errorf("at least one seat is required (seats=%d)", c.Seats)
	}
	if c.Days < 1 {
		return fmt.Errorf("simulation must run at least one day (days=%d)", c.Days)
	}
	if c.ShiftOpen < 0 || c.ShiftClose <= c.ShiftOpen || c.ShiftClose > MinutesPerDay {
		return fmt.Errorf("shift window [%d,%d) is not inside a day", c.ShiftOpen, c.ShiftClose)
	}
	if c.VisitMax <= 0 || c.VisitMin < 0 || c.VisitMin > c.VisitMax {
		return fmt.Errorf("visit probability bounds [%d,%d) are invalid", c.VisitMin, c.VisitMax)
	}
	if c.MaxRequests < 1 {
		return fmt.Errorf("max requests per day must be positive (got %d)", c.MaxRequests)
	}
	if c.MinuteDuration <= 0 {
		return fmt.Errorf("minute duration must be positive (got %s)", c.MinuteDuration)
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}
	for i, svc := range c.Services {
		if svc.ID != i {
			return fmt.Errorf("service IDs must be dense from zero (index %d has id %d)", i, svc.ID)
		}
		if svc.Duration < 1 {
			return fmt.Errorf("service %d has non-positive duration %d", svc.ID, svc.Duration)
		}
	}
	return nil
}

// pollInterval is the bounded sleep used by every polling loop: five
// simulated minutes, as in the reference.
func (c *Config) pollInterval() time.Duration {
	return 5 * c.MinuteDuration
}

// serviceMinutes is the wall-clock duration of n simulated minutes.
func (c *Config) serviceMinutes(n float64) time.Duration {
	return time.Duration(n * float64(c.MinuteDuration))
}
