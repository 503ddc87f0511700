package model

// Ticket is a committed reservation of one seat for one session.  For a
// given SessionID the (Row, Col) pair is unique across all tickets.
// Tickets are created by a booking confirmation or by payment
// finalization and are never mutated afterwards.
//
// Fields:
//  ID        – identifier assigned by the store.
//  SessionID – session the seat belongs to.
//  Row, Col  – 1-based seat position.
//  UserID    – owner; nil for anonymous bookings.
//  OrderID   – payment order that produced the ticket; nil for direct bookings.
type Ticket struct {
	ID        ID      `json:"id,omitempty"`      // tickets.id
	SessionID uint64  `json:"sessionId"`         // tickets.session_id
	Row       int     `json:"row"`               // tickets.seat_row
	Col       int     `json:"col"`               // tickets.seat_col
	UserID    *string `json:"userId"`            // tickets.user_id (nullable)
	OrderID   *string `json:"orderId,omitempty"` // tickets.order_id (nullable)
}

// Position returns the seat coordinates of the ticket.
func (t Ticket) Position() SeatPosition {
	return SeatPosition{Row: t.Row, Col: t.Col}
}
