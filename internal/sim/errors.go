// Package sim implements the post-office simulation core: the shared
// statistics state and its locking discipline, the seat table and its
// allocation protocol, the ticket dispenser, the director that drives
// simulated time, and the operator and customer agents.  Every agent runs
// as its own goroutine and cooperates over the shared state and a message
// bus of per-agent mailboxes.
package sim

import "errors"

// ErrExploded is the designed abort condition: at a day boundary the
// number of customers still waiting exceeded the configured maximum.  It
// is a reported early termination of the whole simulation, not a crash,
// and is the only error the director returns after a clean start.
var ErrExploded = errors.New("too many customers still waiting at day end")

// ErrNoOperator is returned to a customer when no occupied seat offers the
// requested service today.  The request fails immediately without queueing.
var ErrNoOperator = errors.New("no operator offers the requested service today")

// ErrShiftClosed is returned when a customer is still queued for a seat at
// the moment the shift closes.  The customer records a late outcome and
// abandons the remainder of the day's itinerary.
var ErrShiftClosed = errors.New("shift closed while waiting")

// ErrUnknownAgent is returned by the bus when a message is addressed to an
// identifier with no registered mailbox.
var ErrUnknownAgent = errors.New("no mailbox registered for agent")

// ErrMailboxFull is returned by the bus when the addressee's mailbox is at
// capacity.  Senders treat it as a protocol failure: the current item is
// abandoned and only a failure statistic escapes.
var ErrMailboxFull = errors.New("agent mailbox full")

// ErrTicketTimeout is returned when the dispenser never answered a ticket
// request within the customer's retry budget.
var ErrTicketTimeout = errors.New("no ticket response from dispenser")

// ErrSimulationDone is returned by AddCustomers once the simulation has
// finished; no new agents can join a terminated run.
var ErrSimulationDone = errors.New("simulation already finished")
