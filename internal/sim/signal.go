package sim

import (
	"sync"
	"time"
)

// Signal is a counting wake-up primitive, the in-process rendering of the
// reference counting semaphores.  The director posts exactly one permit
// per agent expected to consume a broadcast; agents consume exactly one.
// Posting more permits than live waiters carries the surplus to a future
// waiter, posting fewer strands a waiter, so fan-out counts are always
// computed from the population registered at post time.
//
// Waits are bounded: a waiter that times out re-checks its surrounding
// condition (shift closed, context cancelled) and retries, which is what
// keeps the seat-allocation protocol deadlock free.
type Signal struct {
	mu sync.Mutex
	n  int
	ch chan struct{} // wake-up notification, capacity 1
}

// NewSignal returns a Signal with no pending permits.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Post adds n permits and wakes a waiter.  Waiters chain further wake-ups
// as long as permits remain, so a single notification slot suffices.
func (s *Signal) Post(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.n += n
	s.mu.Unlock()
	s.notify()
}

// TryWait consumes one permit without blocking and reports whether one was
// available.
func (s *Signal) TryWait() bool {
	s.mu.Lock()
	ok := s.n > 0
	if ok {
		s.n--
	}
	remaining := s.n
	s.mu.Unlock()
	if ok && remaining > 0 {
		s.notify() // pass the wake-up on to the next waiter
	}
	return ok
}

// Wait blocks until it consumes a permit or the timeout elapses.  It may
// wake spuriously and re-check, which callers must tolerate anyway because
// every blocking point in the protocol is a retry loop.
func (s *Signal) Wait(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if s.TryWait() {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			// One last attempt covers a permit posted after the final
			// TryWait but before the deadline check.
			return s.TryWait()
		}
		t := time.NewTimer(remaining)
		select {
		case <-s.ch:
			t.Stop()
		case <-t.C:
			return s.TryWait()
		}
	}
}

// Pending returns the number of unconsumed permits.  Reporting and tests
// use it to verify exact broadcast fan-out.
func (s *Signal) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *Signal) notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}
