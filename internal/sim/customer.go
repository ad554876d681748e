package sim

import (
	"context"
	"errors"
	"log"
	"math/rand"
)

// Customer visits the post office on days its planner decides to, walks in
// at a planned minute, and works through an itinerary of services: claim a
// matching seat, obtain a ticket, ask the seated operator for service,
// await completion, book statistics and free the seat.  Failures stay
// contained to the item (or, for a shift-close abandon, to the day): only
// aggregate counters escape, through the stats lock.
type Customer struct {
	id          int
	dispenserID int
	cfg         *Config
	state       *State
	seats       *SeatTable
	bus         *Bus
	inbox       <-chan Message
	rng         *rand.Rand
	planner     Planner
}

// NewCustomer registers the customer's mailbox and returns the agent.
func NewCustomer(id, dispenserID int, cfg *Config, state *State, seats *SeatTable, bus *Bus, rng *rand.Rand) *Customer {
	return &Customer{
		id:          id,
		dispenserID: dispenserID,
		cfg:         cfg,
		state:       state,
		seats:       seats,
		bus:         bus,
		inbox:       bus.Register(id),
		rng:         rng,
		planner:     cfg.Planner,
	}
}

// Run repeats the per-day loop until the context is cancelled.
func (c *Customer) Run(ctx context.Context) {
	for {
		if !waitSignal(ctx, c.state.DayStart(), c.cfg.pollInterval()) {
			return
		}
		c.runDay(ctx)
		if ctx.Err() != nil {
			return
		}
	}
}

// runDay is one simulated day.  Every customer consumes exactly one
// day-start and one shift-open permit per day, whether or not it visits,
// so the director's broadcast fan-out stays balanced.
func (c *Customer) runDay(ctx context.Context) {
	visit := c.planner.Visit(c.rng)
	var itinerary []int
	walkIn := 0
	if visit {
		itinerary = c.planner.Itinerary(c.rng)
		walkIn = c.planner.WalkInMinute(c.rng, len(itinerary))
	}

	if !waitSignal(ctx, c.state.ShiftOpen(), c.cfg.pollInterval()) {
		return
	}
	if !visit {
		c.logf("staying home today")
		return
	}

	// Busy-wait in bounded steps until the walk-in minute; the clock is
	// read without the stats lock.
	for c.state.Minute() < walkIn && c.state.Minute() < c.cfg.ShiftClose {
		if sleepCtx(ctx, c.cfg.pollInterval()) != nil {
			return
		}
	}
	c.logf("walking in at %s with %d errands", ClockHHMM(c.state.Minute()), len(itinerary))

	lateRecorded := false
	for _, serviceID := range itinerary {
		if ctx.Err() != nil {
			return
		}
		if c.state.Minute() >= c.cfg.ShiftClose {
			// Arrived at this errand after closing: a plain failure, not a
			// late event, because the customer was never queued for it.
			c.state.RecordFailure(serviceID)
			continue
		}
		err := c.requestService(ctx, serviceID)
		switch {
		case err == nil:
		case errors.Is(err, ErrShiftClosed):
			c.state.RecordFailure(serviceID)
			if !lateRecorded {
				lateRecorded = true
				c.state.RecordLate()
			}
			c.logf("still waiting at closing time, going home")
			return // abandon the remainder of the itinerary
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return
		default:
			c.state.RecordFailure(serviceID)
			c.logf("errand for service %d failed: %v", serviceID, err)
		}
	}
}

// requestService runs one itinerary item end to end.
func (c *Customer) requestService(ctx context.Context, serviceID int) error {
	queuedAt := c.state.Minute()
	idx, operatorID, err := c.acquireSeat(ctx, serviceID)
	if err != nil {
		return err
	}
	waited := float64(c.state.Minute() - queuedAt)

	ticket, err := c.obtainTicket(ctx, serviceID)
	if err != nil {
		c.seats.ReleaseCustomer(idx, c.id)
		return err
	}
	c.logf("ticket %d for service %d at seat %d", ticket, serviceID, idx)

	if err := c.bus.Send(operatorID, ServiceRequest{RequesterID: c.id, TicketNumber: ticket}); err != nil {
		c.seats.ReleaseCustomer(idx, c.id)
		return err
	}

	done, err := c.awaitDone(ctx, ticket)
	if err != nil {
		c.seats.ReleaseCustomer(idx, c.id)
		return err
	}

	c.state.RecordSuccess(serviceID, waited, done.ServiceTime, idx)
	// Best effort: let the dispenser reclaim the tracking slot.
	_ = c.bus.Send(c.dispenserID, TicketConsumed{TicketNumber: ticket})
	c.seats.ReleaseCustomer(idx, c.id)
	c.logf("served ticket %d in %.1f minutes after waiting %.0f", ticket, done.ServiceTime, waited)
	return nil
}

// acquireSeat claims an occupied seat offering serviceID.  When every
// matching seat is customer-busy it blocks on the "freed" signal in
// bounded steps and rescans; when no occupied seat offers the service at
// all it fails immediately with ErrNoOperator; when the shift closes while
// still queued it fails with ErrShiftClosed.
func (c *Customer) acquireSeat(ctx context.Context, serviceID int) (idx, operatorID int, err error) {
	for {
		idx, operatorID, offered, ok := c.seats.ClaimCustomer(c.id, serviceID)
		if ok {
			return idx, operatorID, nil
		}
		if !offered {
			return -1, 0, ErrNoOperator
		}
		if c.state.Minute() >= c.cfg.ShiftClose {
			return -1, 0, ErrShiftClosed
		}
		c.seats.Freed().Wait(c.cfg.pollInterval())
		if err := ctx.Err(); err != nil {
			return -1, 0, err
		}
	}
}

// obtainTicket performs the ticket request/response exchange with the
// dispenser.  Timed-out receives are retried within a bounded budget;
// envelopes other than a TicketResponse are discarded as stale.
func (c *Customer) obtainTicket(ctx context.Context, serviceID int) (int, error) {
	if err := c.bus.Send(c.dispenserID, TicketRequest{RequesterID: c.id, ServiceID: serviceID}); err != nil {
		return 0, err
	}
	for attempts := 0; attempts < 200; attempts++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		msg, ok := recvTimeout(c.inbox, c.cfg.pollInterval())
		if !ok {
			continue
		}
		if resp, ok := msg.(TicketResponse); ok {
			return resp.TicketNumber, nil
		}
	}
	return 0, ErrTicketTimeout
}

// awaitDone blocks until the completion for the given ticket arrives.
// There is no shift-close abort here: a customer already seated is served
// to completion even past closing time.
func (c *Customer) awaitDone(ctx context.Context, ticket int) (ServiceDone, error) {
	for {
		if err := ctx.Err(); err != nil {
			return ServiceDone{}, err
		}
		msg, ok := recvTimeout(c.inbox, c.cfg.pollInterval())
		if !ok {
			continue
		}
		if done, ok := msg.(ServiceDone); ok && done.TicketNumber == ticket {
			return done, nil
		}
	}
}

func (c *Customer) logf(format string, args ...any) {
	if c.cfg.Verbose {
		log.Printf("customer %d: "+format, append([]any{c.id}, args...)...)
	}
}
