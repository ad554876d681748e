package sim

import (
	"sync"
	"time"
)

// Message is any envelope exchanged over the bus.  Envelopes are created
// by the sender, consumed exactly once by the addressed receiver and never
// persisted beyond the exchange.
type Message any

// TicketRequest asks the dispenser for a queue position for one service.
type TicketRequest struct {
	RequesterID int
	ServiceID   int
}

// TicketResponse carries the issued ticket number back to the requester.
type TicketResponse struct {
	DispenserID  int
	TicketNumber int
}

// ServiceRequest asks the operator seated at the claimed seat to perform
// the service the customer holds a ticket for.
type ServiceRequest struct {
	RequesterID  int
	TicketNumber int
}

// ServiceDone reports a completed service back to the customer.
// ServiceTime is in simulated minutes.
type ServiceDone struct {
	OperatorID   int
	TicketNumber int
	ServiceID    int
	ServiceTime  float64
}

// TicketConsumed tells the dispenser the ticket's tracking slot can be
// reused.  Customers send it best-effort after a completed service.
type TicketConsumed struct {
	TicketNumber int
}

// Bus routes envelopes to per-agent mailboxes keyed by agent ID.  It
// replaces the reference design's message-type arithmetic (which encoded
// the target's identity into a numeric tag) with an explicit routing
// table, so one logical channel still serves N addressable queues.
type Bus struct {
	mu      sync.RWMutex
	boxes   map[int]chan Message
	boxSize int
}

// NewBus returns a Bus whose mailboxes buffer up to boxSize envelopes.
func NewBus(boxSize int) *Bus {
	if boxSize < 1 {
		boxSize = 1
	}
	return &Bus{boxes: make(map[int]chan Message), boxSize: boxSize}
}

// Register creates (or returns) the mailbox for the given agent.  The
// returned channel is owned by that agent: only the agent receives from
// it.
func (b *Bus) Register(id int) chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if box, ok := b.boxes[id]; ok {
		return box
	}
	box := make(chan Message, b.boxSize)
	b.boxes[id] = box
	return box
}

// Send delivers msg to the addressee's mailbox without blocking.  It
// returns ErrUnknownAgent when no mailbox exists and ErrMailboxFull when
// the mailbox is at capacity; both are protocol failures the sender
// records as a failed-service statistic.
func (b *Bus) Send(to int, msg Message) error {
	b.mu.RLock()
	box, ok := b.boxes[to]
	b.mu.RUnlock()
	if !ok {
		return ErrUnknownAgent
	}
	select {
	case box <- msg:
		return nil
	default:
		return ErrMailboxFull
	}
}

// poll returns the next envelope from box without blocking.
func poll(box <-chan Message) (Message, bool) {
	select {
	case msg := <-box:
		return msg, true
	default:
		return nil, false
	}
}

// recvTimeout waits up to d for an envelope.  A timeout is the normal
// "no message" outcome, not an error; callers retry inside their own
// bounded loops.
func recvTimeout(box <-chan Message, d time.Duration) (Message, bool) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case msg := <-box:
		return msg, true
	case <-t.C:
		return nil, false
	}
}
