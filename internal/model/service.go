package model // package model defines the domain records shared across layers

// Service describes one counter service offered by the post office.  Each
// service has a stable numeric ID (used as an index into statistics tables
// and seat assignments) and a nominal duration in simulated minutes.  The
// actual time an operator spends on a request is jittered around the
// nominal duration.
type Service struct {
	ID       int    `json:"id"`       // stable service identifier
	Name     string `json:"name"`     // human readable service name
	Duration int    `json:"duration"` // nominal duration in simulated minutes
}

// DefaultServices returns the six counter services of the reference post
// office together with their nominal durations.  Callers may substitute a
// shorter list (for example in tests) as long as IDs stay dense from zero.
func DefaultServices() []Service {
	return []Service{
		{ID: 0, Name: "Invio e ritiro pacchi", Duration: 10},
		{ID: 1, Name: "Invio e ritiro lettere e raccomandate", Duration: 8},
		{ID: 2, Name: "Prelievi e versamenti Bancoposta", Duration: 6},
		{ID: 3, Name: "Pagamento bollettini postali", Duration: 8},
		{ID: 4, Name: "Acquisto prodotti finanziari", Duration: 20},
		{ID: 5, Name: "Acquisto orologi e braccialetti", Duration: 20},
	}
}
