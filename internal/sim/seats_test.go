package sim

import (
	"math/rand"
	"testing"
)

func TestSeatOperatorClaimAndRelease(t *testing.T) {
	table := NewSeatTable(2)
	// Both seats start on service 0.
	idx, ok := table.ClaimOperator(7, 0)
	if !ok || idx != 0 {
		t.Fatalf("claim = (%d, %v), want seat 0", idx, ok)
	}
	if _, ok := table.ClaimOperator(8, 1); ok {
		t.Fatalf("claimed a seat for a service no seat is assigned to")
	}
	idx2, ok := table.ClaimOperator(8, 0)
	if !ok || idx2 != 1 {
		t.Fatalf("second claim = (%d, %v), want seat 1", idx2, ok)
	}

	table.ReleaseOperator(idx, 7)
	if got := table.Available().Pending(); got != 1 {
		t.Fatalf("available permits = %d after release, want 1", got)
	}
	seats := table.Snapshot()
	if seats[0].OperatorOccupied {
		t.Fatalf("seat 0 still operator-occupied after release")
	}
	if !seats[1].OperatorOccupied || seats[1].OperatorID != 8 {
		t.Fatalf("seat 1 = %+v, want operator 8 seated", seats[1])
	}
}

func TestSeatReleaseByNonOwnerIsIgnored(t *testing.T) {
	table := NewSeatTable(1)
	idx, ok := table.ClaimOperator(7, 0)
	if !ok {
		t.Fatalf("claim failed")
	}
	table.ReleaseOperator(idx, 99)
	if got := table.Available().Pending(); got != 0 {
		t.Fatalf("release by non-owner posted %d permits", got)
	}
	if !table.Snapshot()[idx].OperatorOccupied {
		t.Fatalf("release by non-owner cleared the seat")
	}
}

func TestSeatCustomerClaimNeedsSeatedOperator(t *testing.T) {
	table := NewSeatTable(1)

	_, _, offered, ok := table.ClaimCustomer(5, 0)
	if offered || ok {
		t.Fatalf("empty table offered=%v ok=%v, want neither", offered, ok)
	}

	if _, ok := table.ClaimOperator(7, 0); !ok {
		t.Fatalf("operator claim failed")
	}
	idx, operatorID, offered, ok := table.ClaimCustomer(5, 0)
	if !offered || !ok || idx != 0 || operatorID != 7 {
		t.Fatalf("claim = (%d, %d, %v, %v)", idx, operatorID, offered, ok)
	}

	// Seat is busy now: offered but not claimable.
	_, _, offered, ok = table.ClaimCustomer(6, 0)
	if !offered || ok {
		t.Fatalf("busy seat offered=%v ok=%v, want offered only", offered, ok)
	}

	table.ReleaseCustomer(idx, 5)
	if got := table.Freed().Pending(); got != 1 {
		t.Fatalf("freed permits = %d after release, want 1", got)
	}
	if _, _, _, ok := table.ClaimCustomer(6, 0); !ok {
		t.Fatalf("seat not claimable after customer release")
	}
}

func TestSeatReassignClearsOccupancy(t *testing.T) {
	table := NewSeatTable(4)
	if _, ok := table.ClaimOperator(7, 0); !ok {
		t.Fatalf("operator claim failed")
	}

	rng := rand.New(rand.NewSource(42))
	table.Reassign(rng, 3)

	for i, s := range table.Snapshot() {
		if s.OperatorOccupied || s.CustomerOccupied {
			t.Fatalf("seat %d still occupied after reassign: %+v", i, s)
		}
		if s.ServiceID < 0 || s.ServiceID >= 3 {
			t.Fatalf("seat %d assigned out-of-range service %d", i, s.ServiceID)
		}
	}
}
