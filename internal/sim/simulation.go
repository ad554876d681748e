package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// Simulation owns the shared state, the seat table, the bus and every
// agent goroutine.  It follows the longest-lifetime-holder-destroys model:
// the simulation creates the shared structures, the agents mutate them
// under their locks, and everything is torn down when Run returns.
type Simulation struct {
	cfg   Config
	state *State
	seats *SeatTable
	bus   *Bus
	pop   *Population
	disp  *Dispenser

	mu       sync.Mutex
	nextID   int
	finished bool
	agentCtx context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	repMu    sync.Mutex
	reports  []model.DayReport
	onReport []func(model.DayReport)
}

// New validates and normalizes cfg and builds a simulation ready to Run.
func New(cfg Config) (*Simulation, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:    cfg,
		state:  NewState(len(cfg.Services), cfg.Seats),
		seats:  NewSeatTable(cfg.Seats),
		bus:    NewBus(cfg.MailboxSize),
		pop:    NewPopulation(cfg.Operators, cfg.Customers),
		nextID: 1,
	}
	s.disp = NewDispenser(s.allocID(), s.bus, cfg.TicketTableSize, s.agentRand(0), cfg.Verbose)
	return s, nil
}

// OnDayReport registers a callback invoked with every end-of-day report,
// after it has been stored.  Callbacks run on the director goroutine and
// should hand off slow work (archiving, publishing) themselves.
func (s *Simulation) OnDayReport(fn func(model.DayReport)) {
	s.repMu.Lock()
	defer s.repMu.Unlock()
	s.onReport = append(s.onReport, fn)
}

// Run starts the dispenser and the configured agents, then drives the
// director to completion on the calling goroutine.  It returns nil on a
// normally completed run or ErrExploded on the designed abort; agents are
// terminated by cancellation when the director finishes, there is no
// cooperative shutdown of in-progress service.
func (s *Simulation) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.agentCtx = runCtx
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.disp.Run(runCtx)
	}()
	for i := 0; i < s.cfg.Operators; i++ {
		s.spawnOperator(runCtx, i)
	}
	s.spawnCustomers(runCtx, s.cfg.Customers)

	director := NewDirector(&s.cfg, s.state, s.seats, s.pop, s.agentRand(-1), s.storeReport)
	err := director.Run(runCtx)

	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	cancel()
	s.wg.Wait()
	return err
}

// AddCustomers spawns n new customer agents and queues them for admission
// at the next day start, returning the population the broadcasts will use
// from that day on.  This is the population-change operation behind the
// control API.
func (s *Simulation) AddCustomers(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("customer count must be positive (got %d)", n)
	}
	s.mu.Lock()
	if s.finished || s.agentCtx == nil {
		s.mu.Unlock()
		return 0, ErrSimulationDone
	}
	ctx := s.agentCtx
	s.mu.Unlock()

	total := s.pop.AddPending(n)
	s.spawnCustomers(ctx, n)
	return total, nil
}

// Stats returns a consistent snapshot of the statistics and the clock.
func (s *Simulation) Stats() model.Stats { return s.state.Snapshot() }

// Seats returns a copy of the seat table.
func (s *Simulation) Seats() []model.Seat { return s.seats.Snapshot() }

// Clock returns the current simulated day and minute of day.
func (s *Simulation) Clock() (day, minute int) {
	return s.state.Day(), s.state.Minute()
}

// Reports returns the day reports accumulated so far, oldest first.
func (s *Simulation) Reports() []model.DayReport {
	s.repMu.Lock()
	defer s.repMu.Unlock()
	return append([]model.DayReport(nil), s.reports...)
}

// Population returns the active operator and customer counts.
func (s *Simulation) Population() (operators, customers int) {
	return s.pop.Operators(), s.pop.Customers()
}

// Services returns the configured service catalog.
func (s *Simulation) Services() []model.Service {
	return append([]model.Service(nil), s.cfg.Services...)
}

func (s *Simulation) storeReport(rep model.DayReport) {
	s.repMu.Lock()
	s.reports = append(s.reports, rep)
	callbacks := make([]func(model.DayReport), len(s.onReport))
	copy(callbacks, s.onReport)
	s.repMu.Unlock()
	for _, fn := range callbacks {
		fn(rep)
	}
}

func (s *Simulation) spawnOperator(ctx context.Context, i int) {
	id := s.allocID()
	serviceID := 0
	if len(s.cfg.OperatorServices) > 0 {
		serviceID = s.cfg.OperatorServices[i%len(s.cfg.OperatorServices)]
	} else {
		serviceID = s.agentRand(int64(id)).Intn(len(s.cfg.Services))
	}
	op := NewOperator(id, serviceID, &s.cfg, s.state, s.seats, s.bus, s.agentRand(int64(id)))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		op.Run(ctx)
	}()
}

func (s *Simulation) spawnCustomers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		id := s.allocID()
		cust := NewCustomer(id, s.disp.id, &s.cfg, s.state, s.seats, s.bus, s.agentRand(int64(id)))
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			cust.Run(ctx)
		}()
	}
}

func (s *Simulation) allocID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// agentRand returns a deterministic per-agent source so runs with the same
// seed reproduce the same decisions regardless of goroutine interleaving
// of the shared source.
func (s *Simulation) agentRand(id int64) *rand.Rand {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed + id*17 + 99))
}
