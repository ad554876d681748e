package model

// ServiceStats accumulates the outcome counters for a single service (or,
// for the global instance, for all services combined).  Wait and service
// times are kept as running sums in simulated minutes so that averages can
// be derived at reporting time without extra bookkeeping.  Instances are
// only ever mutated while holding the simulation stats lock.
type ServiceStats struct {
	Served           int     `json:"served"`             // requests completed successfully
	Failed           int     `json:"failed"`             // requests abandoned or refused
	TotalWaitTime    float64 `json:"total_wait_time"`    // sum of queue wait, simulated minutes
	TotalServiceTime float64 `json:"total_service_time"` // sum of service time, simulated minutes
	TotalRequests    int     `json:"total_requests"`     // every attempted request, served or not
}

// Add folds another ServiceStats into the receiver, summing every counter.
// The simulation records into the daily and cumulative counters directly;
// Add is for consumers aggregating reported counters across services or
// days.
func (s *ServiceStats) Add(o ServiceStats) {
	s.Served += o.Served
	s.Failed += o.Failed
	s.TotalWaitTime += o.TotalWaitTime
	s.TotalServiceTime += o.TotalServiceTime
	s.TotalRequests += o.TotalRequests
}

// AvgWait returns the average queue wait in simulated minutes, or zero when
// nothing was served.
func (s ServiceStats) AvgWait() float64 {
	if s.Served == 0 {
		return 0
	}
	return s.TotalWaitTime / float64(s.Served)
}

// AvgService returns the average service time in simulated minutes, or zero
// when nothing was served.
func (s ServiceStats) AvgService() float64 {
	if s.Served == 0 {
		return 0
	}
	return s.TotalServiceTime / float64(s.Served)
}

// DailyStats holds the counters that are reset at every day boundary by the
// director.  Services is indexed by service ID.  ServedBySeat is indexed by
// seat and counts customers served at that counter, which yields the seat
// occupancy ratios for the daily report.
type DailyStats struct {
	Global          ServiceStats   `json:"global"`
	Services        []ServiceStats `json:"services"`
	ActiveOperators int            `json:"active_operators"` // operators that took a seat today
	Pauses          int            `json:"pauses"`           // operator breaks taken today
	LateUsers       int            `json:"late_users"`       // customers still queued at shift close
	ServedBySeat    []int          `json:"served_by_seat"`
}

// NewDailyStats returns a zeroed DailyStats sized for the given number of
// services and seats.
func NewDailyStats(services, seats int) DailyStats {
	return DailyStats{
		Services:     make([]ServiceStats, services),
		ServedBySeat: make([]int, seats),
	}
}

// Reset zeroes every counter in place, keeping the slice capacities.
func (d *DailyStats) Reset() {
	d.Global = ServiceStats{}
	for i := range d.Services {
		d.Services[i] = ServiceStats{}
	}
	d.ActiveOperators = 0
	d.Pauses = 0
	d.LateUsers = 0
	for i := range d.ServedBySeat {
		d.ServedBySeat[i] = 0
	}
}

// Stats is a consistent snapshot of the whole statistics state: the
// cumulative counters since simulation start plus today's counters.  It is
// what the stats endpoint serves and what reporting code receives.
type Stats struct {
	Global   ServiceStats   `json:"global"`
	Services []ServiceStats `json:"services"`
	Today    DailyStats     `json:"today"`
	Day      int            `json:"day"`
	Minute   int            `json:"minute"`
}

// DayReport is the frozen end-of-day report emitted by the director right
// before the daily counters are reset.  It is archived, published and kept
// in memory for the daily stats endpoint.
type DayReport struct {
	Day             int            `json:"day"`
	Global          ServiceStats   `json:"global"`
	Services        []ServiceStats `json:"services"`
	ActiveOperators int            `json:"active_operators"`
	Pauses          int            `json:"pauses"`
	LateUsers       int            `json:"late_users"`
	ServedBySeat    []int          `json:"served_by_seat"`
}
