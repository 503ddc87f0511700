// Package booking turns a seat selection into committed tickets.  The
// Resolver refuses a batch that touches an occupied seat and otherwise
// creates one ticket per seat in the caller's order.  The Finalizer runs
// after payment and makes retries of the same order safe.
package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// TicketStore is the committed-ticket set.  Create fills in the ticket id
// and returns repository.ErrConflict when the store itself detects that
// the seat is taken.
type TicketStore interface {
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error)
	Create(ctx context.Context, t *model.Ticket) error
}

// Notifier is told about every batch of tickets that was committed.
type Notifier interface {
	NotifyBooked(ctx context.Context, sessionID uint64, tickets []model.Ticket, orderID *string) error
}

// Request is a batch of seats for one session.  UserID and OrderID are
// copied onto every ticket; both may be nil.
type Request struct {
	SessionID uint64
	Seats     []model.SeatPosition
	UserID    *string
	OrderID   *string
}

// Resolver books seats against a TicketStore.
type Resolver struct {
	Store    TicketStore
	Notifier Notifier // optional
	Log      *zap.Logger
}

// NewResolver wires a Resolver.  notifier may be nil.
func NewResolver(store TicketStore, notifier Notifier, log *zap.Logger) *Resolver {
	if store == nil {
		panic("nil ticket store passed to NewResolver")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{Store: store, Notifier: notifier, Log: log}
}

// ValidateSeats rejects an empty batch, coordinates below 1 and repeated
// seats.
func ValidateSeats(seats []model.SeatPosition) error {
	if len(seats) == 0 {
		return invalid(MsgSeatsRequired)
	}
	seen := make(map[model.SeatPosition]struct{}, len(seats))
	for _, s := range seats {
		if s.Row < 1 || s.Col < 1 {
			return invalid(MsgSeatRowCol)
		}
		if _, dup := seen[s]; dup {
			return invalid(fmt.Sprintf("Seat at row %d, col %d is requested more than once.", s.Row, s.Col))
		}
		seen[s] = struct{}{}
	}
	return nil
}

// CheckConflicts returns the requested seats that already hold a ticket
// of sessionID, in the order they were requested.  Tickets of other
// sessions are ignored.
func CheckConflicts(sessionID uint64, requested []model.SeatPosition, committed []model.Ticket) []model.SeatPosition {
	taken := make(map[model.SeatPosition]struct{}, len(committed))
	for _, t := range committed {
		if t.SessionID == sessionID {
			taken[t.Position()] = struct{}{}
		}
	}
	var out []model.SeatPosition
	for _, s := range requested {
		if _, ok := taken[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Book validates the request, refuses it as a whole when any seat is
// occupied and then creates the tickets one by one.  It returns a
// *ConflictError for occupied seats, including a seat lost to a concurrent
// booking after the check, and a *BatchError when a create fails part way.
func (r *Resolver) Book(ctx context.Context, req Request) ([]model.Ticket, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	committed, err := r.Store.ListBySession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if conflicts := CheckConflicts(req.SessionID, req.Seats, committed); len(conflicts) > 0 {
		r.Log.Info("booking rejected, seats occupied",
			zap.Uint64("session_id", req.SessionID),
			zap.Int("conflicts", len(conflicts)))
		return nil, &ConflictError{Seats: conflicts}
	}
	return r.commit(ctx, req, req.Seats)
}

func validateRequest(req Request) error {
	if req.SessionID == 0 {
		return invalid(MsgSeatsRequired)
	}
	return ValidateSeats(req.Seats)
}

// commit creates tickets for seats in order and notifies on success.
func (r *Resolver) commit(ctx context.Context, req Request, seats []model.SeatPosition) ([]model.Ticket, error) {
	created := make([]model.Ticket, 0, len(seats))
	for i, s := range seats {
		t := model.Ticket{
			SessionID: req.SessionID,
			Row:       s.Row,
			Col:       s.Col,
			UserID:    req.UserID,
			OrderID:   req.OrderID,
		}
		if err := r.Store.Create(ctx, &t); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				err = &ConflictError{Seats: []model.SeatPosition{s}}
			}
			r.Log.Warn("ticket batch stopped",
				zap.Uint64("session_id", req.SessionID),
				zap.Int("failed_at", i),
				zap.Int("created", len(created)),
				zap.Error(err))
			return created, &BatchError{Created: created, FailedAt: i, Seat: s, Err: err}
		}
		created = append(created, t)
	}
	r.Log.Info("tickets created",
		zap.Uint64("session_id", req.SessionID),
		zap.Int("count", len(created)))
	r.notify(ctx, req, created)
	return created, nil
}

func (r *Resolver) notify(ctx context.Context, req Request, tickets []model.Ticket) {
	if r.Notifier == nil || len(tickets) == 0 {
		return
	}
	if err := r.Notifier.NotifyBooked(ctx, req.SessionID, tickets, req.OrderID); err != nil {
		r.Log.Warn("tickets booked notification failed", zap.Error(err))
	}
}
