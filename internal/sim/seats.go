package sim

import (
	"math/rand"
	"sync"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// SeatTable is the fixed-capacity table of counter seats, guarded by its
// own mutex (independent of the stats lock; the two are never held at the
// same time).  Two counting signals pair with it: "available" wakes
// operators when a seat loses its operator, "freed" wakes customers when a
// seat loses its customer.  Every release posts exactly one permit on the
// matching signal; an unmatched post would leak a permit to an unrelated
// future waiter and a missing one could strand a legitimate waiter.
type SeatTable struct {
	mu    sync.Mutex
	seats []model.Seat

	available *Signal // a seat became claimable by operators
	freed     *Signal // a seat became claimable by customers
}

// NewSeatTable returns a table of n unoccupied seats all assigned service
// zero; the director reassigns services at every day start.
func NewSeatTable(n int) *SeatTable {
	return &SeatTable{
		seats:     make([]model.Seat, n),
		available: NewSignal(),
		freed:     NewSignal(),
	}
}

// Len returns the seat capacity.
func (t *SeatTable) Len() int { return len(t.seats) }

// Available returns the operator-side signal.
func (t *SeatTable) Available() *Signal { return t.available }

// Freed returns the customer-side signal.
func (t *SeatTable) Freed() *Signal { return t.freed }

// Snapshot copies the seat table for reporting.
func (t *SeatTable) Snapshot() []model.Seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.Seat(nil), t.seats...)
}

// Reassign gives every seat a uniformly random service and clears both
// occupancy flags.  Only the director calls it, at day boundaries, while
// no agent holds a seat.
func (t *SeatTable) Reassign(rng *rand.Rand, numServices int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.seats {
		t.seats[i] = model.Seat{ServiceID: rng.Intn(numServices)}
	}
}

// ClaimOperator atomically claims the first operator-free seat assigned to
// serviceID for the given operator.  It returns the seat index and whether
// a seat was claimed.
func (t *SeatTable) ClaimOperator(operatorID, serviceID int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.seats {
		s := &t.seats[i]
		if !s.OperatorOccupied && s.ServiceID == serviceID {
			s.OperatorOccupied = true
			s.OperatorID = operatorID
			return i, true
		}
	}
	return -1, false
}

// ReleaseOperator clears the operator occupancy of seat idx and posts one
// "available" permit.  Releasing a seat not owned by operatorID is a
// programming error and is ignored.
func (t *SeatTable) ReleaseOperator(idx, operatorID int) {
	t.mu.Lock()
	s := &t.seats[idx]
	owned := s.OperatorOccupied && s.OperatorID == operatorID
	if owned {
		s.OperatorOccupied = false
		s.OperatorID = 0
	}
	t.mu.Unlock()
	if owned {
		t.available.Post(1)
	}
}

// ClaimCustomer scans for an operator-occupied seat assigned to serviceID
// with no customer and claims it (compare-and-set under the seat lock).
// It returns the seat index, the seated operator's ID for message routing,
// whether any occupied seat offers the service at all, and whether the
// claim succeeded.  offered == false means no operator serves serviceID
// right now and the request fails immediately; offered == true with
// ok == false means every matching seat is busy and the caller should wait
// on the freed signal and rescan.
func (t *SeatTable) ClaimCustomer(customerID, serviceID int) (idx, operatorID int, offered, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.seats {
		s := &t.seats[i]
		if !s.OperatorOccupied || s.ServiceID != serviceID {
			continue
		}
		offered = true
		if !s.CustomerOccupied {
			s.CustomerOccupied = true
			s.CustomerID = customerID
			return i, s.OperatorID, true, true
		}
	}
	return -1, 0, offered, false
}

// ReleaseCustomer clears the customer occupancy of seat idx and posts one
// "freed" permit.
func (t *SeatTable) ReleaseCustomer(idx, customerID int) {
	t.mu.Lock()
	s := &t.seats[idx]
	owned := s.CustomerOccupied && s.CustomerID == customerID
	if owned {
		s.CustomerOccupied = false
		s.CustomerID = 0
	}
	t.mu.Unlock()
	if owned {
		t.freed.Post(1)
	}
}
