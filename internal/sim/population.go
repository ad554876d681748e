package sim

import "sync"

// Population tracks how many agents the director must account for when it
// posts a broadcast.  Fan-out counts are read at post time, never compiled
// in, so customers added at runtime are included from their first day.
//
// Customers added mid-day land in the pending bucket and are activated by
// the director at the next day start: they block on the day-start signal
// until then, so counting them in today's open broadcast would leak
// permits.
type Population struct {
	mu        sync.Mutex
	operators int
	customers int
	pending   int
}

// NewPopulation returns a Population with the launch-time agent counts in
// the pending bucket, activated at the first day start.
func NewPopulation(operators, customers int) *Population {
	return &Population{operators: operators, pending: customers}
}

// Operators returns the operator count.
func (p *Population) Operators() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.operators
}

// Customers returns the active customer count.
func (p *Population) Customers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.customers
}

// Total returns the active broadcast fan-out: operators plus active
// customers.
func (p *Population) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.operators + p.customers
}

// AddPending queues n new customers for activation at the next day start
// and returns the population they will then belong to.
func (p *Population) AddPending(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending += n
	return p.operators + p.customers + p.pending
}

// Activate moves pending customers into the active count.  The director
// calls it right before posting the day-start broadcast.
func (p *Population) Activate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customers += p.pending
	p.pending = 0
}
