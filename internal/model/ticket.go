package model

// Ticket is one issued queue position, tracked by the dispenser in a
// fixed-size table.  Tickets are stored at a randomized slot (probed, not
// indexed by number) to avoid hot-spotting; InUse marks slot liveness.
// Number is strictly increasing for the lifetime of the dispenser and is
// not reset at day boundaries.
type Ticket struct {
	ServiceID int  `json:"service_id"`
	OwnerID   int  `json:"owner_id"` // agent that requested the ticket
	Number    int  `json:"number"`
	InUse     bool `json:"in_use"`
}
