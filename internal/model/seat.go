package model

// SeatStatus is the derived state of a seat within a session grid.  It is
// computed from the committed tickets and the caller's current selection
// and is never persisted.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatOccupied  SeatStatus = "occupied"
)

// Seat describes one cell of a session's seat grid.  Row and Col are
// 1-based.  Status is recomputed on every query.
type Seat struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Status SeatStatus `json:"status"`
}

// Position strips the status from the seat.
func (s Seat) Position() SeatPosition {
	return SeatPosition{Row: s.Row, Col: s.Col}
}

// SeatPosition identifies a seat within a hall without any status.  It is
// the shape used in booking requests, payment round-trips and events.
type SeatPosition struct {
	Row int `json:"row" validate:"required,min=1"`
	Col int `json:"col" validate:"required,min=1"`
}
