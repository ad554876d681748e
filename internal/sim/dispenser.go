package sim

import (
	"context"
	"log"
	"math/rand"
	"sync"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// Dispenser issues monotonically increasing ticket numbers and tracks the
// in-flight tickets in a fixed-size table.  Tickets are stored at a
// randomized slot with linear re-probing on collision, never indexed by
// ticket number, to avoid hot-spotting one end of the table.  The counter
// lives for the dispenser's lifetime and is not reset at day boundaries.
type Dispenser struct {
	id      int
	bus     *Bus
	inbox   <-chan Message
	rng     *rand.Rand
	verbose bool

	mu      sync.Mutex
	counter int
	table   []model.Ticket
}

// NewDispenser registers the dispenser's mailbox on the bus and returns
// the dispenser, ready to Run.
func NewDispenser(id int, bus *Bus, tableSize int, rng *rand.Rand, verbose bool) *Dispenser {
	return &Dispenser{
		id:      id,
		bus:     bus,
		inbox:   bus.Register(id),
		rng:     rng,
		verbose: verbose,
		table:   make([]model.Ticket, tableSize),
	}
}

// Run serves the mailbox until the context is cancelled.  Each
// TicketRequest is answered with a TicketResponse addressed to the
// requester; TicketConsumed releases the matching tracking slot.
func (d *Dispenser) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.inbox:
			switch m := msg.(type) {
			case TicketRequest:
				number := d.issue(m.RequesterID, m.ServiceID)
				if d.verbose {
					log.Printf("dispenser: ticket %d issued to agent %d (service %d)", number, m.RequesterID, m.ServiceID)
				}
				if err := d.bus.Send(m.RequesterID, TicketResponse{DispenserID: d.id, TicketNumber: number}); err != nil {
					// The requester gave up or its mailbox is full; the
					// ticket stays tracked until its slot is reclaimed.
					log.Printf("dispenser: reply to agent %d failed: %v", m.RequesterID, err)
				}
			case TicketConsumed:
				d.release(m.TicketNumber)
			}
		}
	}
}

// issue allocates the next ticket number and records it at a free randomly
// probed slot.  When every slot is in use the oldest tracked ticket is
// evicted: the reference design would spin forever probing a full table,
// and slots are only a bookkeeping aid, so dropping the stalest entry is
// the safe degradation.
func (d *Dispenser) issue(ownerID, serviceID int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counter++
	t := model.Ticket{ServiceID: serviceID, OwnerID: ownerID, Number: d.counter, InUse: true}

	start := d.rng.Intn(len(d.table))
	oldest := start
	for i := 0; i < len(d.table); i++ {
		slot := (start + i) % len(d.table)
		if !d.table[slot].InUse {
			d.table[slot] = t
			return t.Number
		}
		if d.table[slot].Number < d.table[oldest].Number {
			oldest = slot
		}
	}
	d.table[oldest] = t
	return t.Number
}

// release frees the tracking slot of the given ticket, if still present.
func (d *Dispenser) release(number int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.table {
		if d.table[i].InUse && d.table[i].Number == number {
			d.table[i] = model.Ticket{}
			return
		}
	}
}

// inFlight counts tracked tickets; used by tests.
func (d *Dispenser) inFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for i := range d.table {
		if d.table[i].InUse {
			n++
		}
	}
	return n
}
