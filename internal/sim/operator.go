package sim

import (
	"context"
	"log"
	"math/rand"
	"time"
)

// serveOutcome tells the operator's day loop why the serve loop ended.
type serveOutcome int

const (
	serveCancelled serveOutcome = iota // context cancelled
	serveClosed                        // shift-close permit consumed
	servePaused                        // operator takes a break
)

// Operator serves customers at a counter seat.  Per day it waits for the
// day start, waits for the shift to open, claims a seat assigned to its
// service, then serves requests from its mailbox until the shift closes or
// it takes a break.  Its service is fixed for the operator's lifetime;
// which seats offer it changes daily with the director's reassignment.
type Operator struct {
	id        int
	serviceID int
	cfg       *Config
	state     *State
	seats     *SeatTable
	bus       *Bus
	inbox     <-chan Message
	rng       *rand.Rand
}

// NewOperator registers the operator's mailbox and returns the agent.
func NewOperator(id, serviceID int, cfg *Config, state *State, seats *SeatTable, bus *Bus, rng *rand.Rand) *Operator {
	return &Operator{
		id:        id,
		serviceID: serviceID,
		cfg:       cfg,
		state:     state,
		seats:     seats,
		bus:       bus,
		inbox:     bus.Register(id),
		rng:       rng,
	}
}

// Run repeats the per-day loop until the context is cancelled.
func (o *Operator) Run(ctx context.Context) {
	for {
		if !waitSignal(ctx, o.state.DayStart(), o.cfg.pollInterval()) {
			return
		}
		o.logf("starting work for the day")
		if !waitSignal(ctx, o.state.ShiftOpen(), o.cfg.pollInterval()) {
			return
		}
		o.logf("entering the counter hall at %s", ClockHHMM(o.state.Minute()))
		o.runShift(ctx)
		if ctx.Err() != nil {
			return
		}
	}
}

// runShift is one day of seat-and-serve cycles.  The operator consumes
// exactly one shift-close permit per day: either inside the seek/serve
// loops or by draining it after a break, so no close permit is carried
// over to the next day.
func (o *Operator) runShift(ctx context.Context) {
	pauses := 0
	seatedToday := false
	closeConsumed := false

	for {
		idx, seated, closed := o.seekSeat(ctx)
		if !seated {
			closeConsumed = closed
			break
		}
		if !seatedToday {
			seatedToday = true
			o.state.RecordActiveOperator()
		}
		o.logf("taking seat %d for service %d", idx, o.serviceID)

		outcome := o.serve(ctx, &pauses)
		o.seats.ReleaseOperator(idx, o.id)
		if outcome == servePaused {
			o.logf("taking a break (%d/%d)", pauses, o.cfg.MaxPauses)
			if sleepCtx(ctx, o.cfg.pollInterval()) != nil {
				return
			}
			continue
		}
		closeConsumed = outcome == serveClosed
		break
	}

	if !closeConsumed {
		o.drainClose(ctx)
	}
	o.logf("shift over")
}

// seekSeat scans for an operator-free seat assigned to the operator's
// service, blocking on the "available" signal between scans.  The wait is
// bounded so the operator notices shift close even when no seat ever
// frees; consuming the close permit ends the search.
func (o *Operator) seekSeat(ctx context.Context) (idx int, seated, closed bool) {
	for {
		if idx, ok := o.seats.ClaimOperator(o.id, o.serviceID); ok {
			return idx, true, false
		}
		if o.state.ShiftClose().TryWait() {
			return -1, false, true
		}
		o.seats.Available().Wait(o.cfg.pollInterval())
		if ctx.Err() != nil {
			return -1, false, false
		}
	}
}

// serve handles the seated request loop: non-blocking polls of the
// mailbox, jittered service execution, completion replies and the
// probabilistic break, re-checking for shift close at short intervals
// while idle.
func (o *Operator) serve(ctx context.Context, pauses *int) serveOutcome {
	for {
		if ctx.Err() != nil {
			return serveCancelled
		}
		if o.state.ShiftClose().TryWait() {
			// A customer that claimed this seat is served to completion
			// even at closing time; finish whatever is already queued
			// before leaving the counter.
			o.drainRequests(ctx)
			return serveClosed
		}
		msg, ok := poll(o.inbox)
		if !ok {
			if sleepCtx(ctx, o.cfg.pollInterval()) != nil {
				return serveCancelled
			}
			continue
		}
		req, ok := msg.(ServiceRequest)
		if !ok {
			continue // stale envelope from a previous day
		}
		if !o.serveOne(ctx, req) {
			return serveCancelled
		}

		if *pauses < o.cfg.MaxPauses && o.rng.Float64() < o.cfg.PauseProb {
			*pauses++
			o.state.RecordPause()
			return servePaused
		}
	}
}

// serveOne executes one request and replies with the completion.  It
// reports false only when the context was cancelled mid-service.
func (o *Operator) serveOne(ctx context.Context, req ServiceRequest) bool {
	nominal := o.cfg.Services[o.serviceID].Duration
	minutes := (0.5 + o.rng.Float64()) * float64(nominal) // uniform in [0.5x, 1.5x)
	o.logf("serving ticket %d (around %d minutes)", req.TicketNumber, nominal)
	if sleepCtx(ctx, o.cfg.serviceMinutes(minutes)) != nil {
		return false
	}

	done := ServiceDone{
		OperatorID:   o.id,
		TicketNumber: req.TicketNumber,
		ServiceID:    o.serviceID,
		ServiceTime:  minutes,
	}
	if err := o.bus.Send(req.RequesterID, done); err != nil {
		// The customer vanished; nothing else to do for this request.
		o.logf("completion for ticket %d undeliverable: %v", req.TicketNumber, err)
		return true
	}
	o.logf("finished ticket %d in %.1f minutes", req.TicketNumber, minutes)
	return true
}

// drainRequests serves every request already sitting in the mailbox.
// Requests can only be queued by customers that hold this seat, so the
// drain is bounded by the seat claim protocol.
func (o *Operator) drainRequests(ctx context.Context) {
	for {
		msg, ok := poll(o.inbox)
		if !ok {
			return
		}
		req, ok := msg.(ServiceRequest)
		if !ok {
			continue
		}
		if !o.serveOne(ctx, req) {
			return
		}
	}
}

// drainClose consumes the operator's shift-close permit after an early
// seat release, keeping the close fan-out exactly balanced.
func (o *Operator) drainClose(ctx context.Context) {
	for ctx.Err() == nil {
		if o.state.ShiftClose().Wait(o.cfg.pollInterval()) {
			return
		}
	}
}

func (o *Operator) logf(format string, args ...any) {
	if o.cfg.Verbose {
		log.Printf("operator %d: "+format, append([]any{o.id}, args...)...)
	}
}

// waitSignal waits on sig in bounded steps until a permit is consumed or
// the context is cancelled.  It reports whether a permit was consumed.
func waitSignal(ctx context.Context, sig *Signal, step time.Duration) bool {
	for {
		if sig.Wait(step) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
}
