// Package queue carries booking events over RabbitMQ: a publisher that
// the booking flow notifies after tickets are committed, and a consumer
// that appends every event to a log file.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/seating"
)

// TicketsBookedQueue is the durable queue the events travel on.
const TicketsBookedQueue = "tickets.booked"

// TicketsBookedEvent is published when a batch of tickets is committed.
// It carries enough for downstream consumers to log or notify without
// querying the ticket store.
type TicketsBookedEvent struct {
	SessionID  uint64   `json:"session_id"`
	OrderID    string   `json:"order_id,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
	TicketIDs  []string `json:"ticket_ids"`
	SeatLabels []string `json:"seats"`
	BookedAt   string   `json:"booked_at"`
}

// NewTicketsBookedEvent describes tickets of one session.  Tickets share
// user and order, so both are read from the first one.
func NewTicketsBookedEvent(sessionID uint64, tickets []model.Ticket, orderID *string, at time.Time) TicketsBookedEvent {
	ev := TicketsBookedEvent{
		SessionID:  sessionID,
		TicketIDs:  make([]string, 0, len(tickets)),
		SeatLabels: make([]string, 0, len(tickets)),
		BookedAt:   at.UTC().Format(time.RFC3339),
	}
	if orderID != nil {
		ev.OrderID = *orderID
	}
	if len(tickets) > 0 && tickets[0].UserID != nil {
		ev.UserID = *tickets[0].UserID
	}
	for _, t := range tickets {
		ev.TicketIDs = append(ev.TicketIDs, string(t.ID))
		ev.SeatLabels = append(ev.SeatLabels, seating.SeatLabel(t.Row, t.Col))
	}
	return ev
}
