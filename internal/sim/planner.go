package sim

import "math/rand"

// Planner decides a customer's daily behavior: whether to visit, which
// services to request and when to walk in.  The numeric distributions are
// deliberately pluggable; tests substitute fixed plans.
type Planner interface {
	// Visit draws the daily go/no-go decision.
	Visit(rng *rand.Rand) bool
	// Itinerary returns the ordered service IDs the customer will request.
	Itinerary(rng *rand.Rand) []int
	// WalkInMinute returns the minute of day the customer arrives, given
	// how many requests it plans.
	WalkInMinute(rng *rand.Rand, requests int) int
}

// randomPlanner reproduces the reference distributions.
type randomPlanner struct {
	cfg *Config
}

// Visit goes to the post office when a uniform draw over [0, VisitMax)
// lands at or above VisitMin.
func (p *randomPlanner) Visit(rng *rand.Rand) bool {
	return rng.Intn(p.cfg.VisitMax) >= p.cfg.VisitMin
}

// Itinerary picks a uniform length in [1, MaxRequests] and fills it with
// uniformly random service IDs.
func (p *randomPlanner) Itinerary(rng *rand.Rand) []int {
	n := rng.Intn(p.cfg.MaxRequests) + 1
	list := make([]int, n)
	for i := range list {
		list[i] = rng.Intn(len(p.cfg.Services))
	}
	return list
}

// WalkInMinute draws an arrival hour inside the shift, shrinking the
// admissible window by 0.4 hours per planned request so long itineraries
// start earlier, then adds a random minute within the hour.
func (p *randomPlanner) WalkInMinute(rng *rand.Rand, requests int) int {
	openHour := p.cfg.ShiftOpen / 60
	closeHour := p.cfg.ShiftClose / 60
	window := int(float64(closeHour)-0.4*float64(requests)) - openHour
	if window < 1 {
		window = 1
	}
	hour := rng.Intn(window) + openHour
	return hour*60 + rng.Intn(60) + 1
}

// fixedPlanner always visits with the same itinerary and walk-in time.
// Exported behavior is reached through Config.Planner; the simulation
// tests use it to pin down end-to-end scenarios.
type fixedPlanner struct {
	itinerary []int
	walkIn    int
	visit     bool
}

func (p *fixedPlanner) Visit(*rand.Rand) bool            { return p.visit }
func (p *fixedPlanner) Itinerary(*rand.Rand) []int       { return append([]int(nil), p.itinerary...) }
func (p *fixedPlanner) WalkInMinute(*rand.Rand, int) int { return p.walkIn }
