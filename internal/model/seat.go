package model

// Seat is one counter position of the post office.  The operator and
// customer occupancy flags are independent: an operator owns a seat across
// many served customers, and for a short window after the daily reset a
// seat may be occupied by neither.  ServiceID is assigned by the director
// at every day start and never changes intraday.
//
// OperatorID and CustomerID are agent identifiers; zero means unowned.
type Seat struct {
	OperatorID       int  `json:"operator_id"`
	OperatorOccupied bool `json:"operator_occupied"`
	CustomerID       int  `json:"customer_id"`
	CustomerOccupied bool `json:"customer_occupied"`
	ServiceID        int  `json:"service_id"`
}
