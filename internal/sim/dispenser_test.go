package sim

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func newTestDispenser(tableSize int) *Dispenser {
	bus := NewBus(16)
	return NewDispenser(1, bus, tableSize, rand.New(rand.NewSource(7)), false)
}

func TestDispenserNumbersAreMonotonic(t *testing.T) {
	d := newTestDispenser(10)
	prev := 0
	for i := 0; i < 25; i++ {
		n := d.issue(2, 0)
		if n <= prev {
			t.Fatalf("ticket %d issued after %d", n, prev)
		}
		prev = n
	}
}

func TestDispenserCounterSurvivesRelease(t *testing.T) {
	d := newTestDispenser(4)
	first := d.issue(2, 0)
	d.release(first)
	second := d.issue(2, 0)
	if second != first+1 {
		t.Fatalf("counter reset by release: got %d after %d", second, first)
	}
}

func TestDispenserReleaseFreesSlot(t *testing.T) {
	d := newTestDispenser(3)
	n1 := d.issue(2, 0)
	d.issue(3, 1)
	if got := d.inFlight(); got != 2 {
		t.Fatalf("in flight = %d, want 2", got)
	}
	d.release(n1)
	if got := d.inFlight(); got != 1 {
		t.Fatalf("in flight = %d after release, want 1", got)
	}
	d.release(n1) // already gone, must be a no-op
	if got := d.inFlight(); got != 1 {
		t.Fatalf("double release changed the table")
	}
}

func TestDispenserEvictsOldestWhenFull(t *testing.T) {
	d := newTestDispenser(2)
	n1 := d.issue(2, 0)
	d.issue(3, 0)
	d.issue(4, 0) // table full, n1 is the oldest and must be evicted
	if got := d.inFlight(); got != 2 {
		t.Fatalf("in flight = %d on a full table, want 2", got)
	}
	d.release(n1)
	if got := d.inFlight(); got != 2 {
		t.Fatalf("evicted ticket was still tracked")
	}
}

func TestDispenserAnswersOverBus(t *testing.T) {
	bus := NewBus(16)
	d := NewDispenser(1, bus, 10, rand.New(rand.NewSource(7)), false)
	customer := bus.Register(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 1; i <= 3; i++ {
		if err := bus.Send(1, TicketRequest{RequesterID: 2, ServiceID: 0}); err != nil {
			t.Fatalf("send request %d: %v", i, err)
		}
		msg, ok := recvTimeout(customer, time.Second)
		if !ok {
			t.Fatalf("no response to request %d", i)
		}
		resp, ok := msg.(TicketResponse)
		if !ok {
			t.Fatalf("response %d = %#v", i, msg)
		}
		if resp.TicketNumber != i || resp.DispenserID != 1 {
			t.Fatalf("response %d = %+v", i, resp)
		}
	}

	// Consuming over the bus frees the slot too.
	if err := bus.Send(1, TicketConsumed{TicketNumber: 1}); err != nil {
		t.Fatalf("send consumed: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for d.inFlight() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("in flight = %d, want 2 after consume", d.inFlight())
		}
		time.Sleep(time.Millisecond)
	}
}
