package sim

import (
	"errors"
	"testing"
	"time"
)

func TestBusRoutesToRegisteredMailbox(t *testing.T) {
	bus := NewBus(4)
	box := bus.Register(1)

	if err := bus.Send(1, TicketRequest{RequesterID: 2, ServiceID: 0}); err != nil {
		t.Fatalf("send: %v", err)
	}
	msg, ok := poll(box)
	if !ok {
		t.Fatalf("mailbox empty after send")
	}
	req, ok := msg.(TicketRequest)
	if !ok || req.RequesterID != 2 {
		t.Fatalf("received %#v", msg)
	}
}

func TestBusUnknownAgent(t *testing.T) {
	bus := NewBus(4)
	if err := bus.Send(9, TicketConsumed{TicketNumber: 1}); !errors.Is(err, ErrUnknownAgent) {
		t.Fatalf("err = %v, want ErrUnknownAgent", err)
	}
}

func TestBusMailboxFull(t *testing.T) {
	bus := NewBus(1)
	bus.Register(1)
	if err := bus.Send(1, TicketConsumed{TicketNumber: 1}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := bus.Send(1, TicketConsumed{TicketNumber: 2}); !errors.Is(err, ErrMailboxFull) {
		t.Fatalf("err = %v, want ErrMailboxFull", err)
	}
}

func TestBusRegisterIsIdempotent(t *testing.T) {
	bus := NewBus(2)
	a := bus.Register(1)
	b := bus.Register(1)
	if err := bus.Send(1, TicketConsumed{TicketNumber: 3}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, ok := poll(a); !ok {
		t.Fatalf("first handle missed the message")
	}
	if _, ok := poll(b); ok {
		t.Fatalf("message delivered twice")
	}
}

func TestRecvTimeout(t *testing.T) {
	bus := NewBus(1)
	box := bus.Register(1)
	if _, ok := recvTimeout(box, time.Millisecond); ok {
		t.Fatalf("recvTimeout returned a message from an empty mailbox")
	}
	_ = bus.Send(1, TicketConsumed{TicketNumber: 4})
	if _, ok := recvTimeout(box, time.Second); !ok {
		t.Fatalf("recvTimeout missed a delivered message")
	}
}
