package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// Result is the outcome of finalizing an order.  Replayed is true when
// every seat was already held by the same requester and nothing new was
// created.
type Result struct {
	Tickets  []model.Ticket `json:"tickets"`
	Replayed bool           `json:"replayed"`
}

// Finalizer commits the tickets of a paid order.  Running it again for
// the same order returns the existing tickets instead of a conflict, and
// running it after a batch that stopped half way creates only the seats
// that are still missing.
type Finalizer struct {
	Resolver *Resolver
}

// NewFinalizer returns a Finalizer that books through r.
func NewFinalizer(r *Resolver) *Finalizer {
	if r == nil {
		panic("nil resolver passed to NewFinalizer")
	}
	return &Finalizer{Resolver: r}
}

// Finalize classifies every requested seat as owned by this requester,
// taken by someone else or free.  A taken seat fails the whole order with
// *ConflictError.  Free seats are created; owned seats are returned as
// they are.  Result.Tickets follows the requested seat order.
//
// When a create loses a race to a concurrent finalization of the same
// order, the seats are classified once more so that the loser reports a
// replay instead of a conflict.
func (f *Finalizer) Finalize(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	res, err := f.finalize(ctx, req)
	var be *BatchError
	var ce *ConflictError
	if errors.As(err, &be) && errors.As(be.Err, &ce) {
		return f.finalize(ctx, req)
	}
	return res, err
}

func (f *Finalizer) finalize(ctx context.Context, req Request) (Result, error) {
	committed, err := f.Resolver.Store.ListBySession(ctx, req.SessionID)
	if err != nil {
		return Result{}, fmt.Errorf("list tickets: %w", err)
	}

	existing := make(map[model.SeatPosition]model.Ticket, len(committed))
	for _, t := range committed {
		if t.SessionID == req.SessionID {
			existing[t.Position()] = t
		}
	}

	var free, taken []model.SeatPosition
	for _, s := range req.Seats {
		t, ok := existing[s]
		switch {
		case !ok:
			free = append(free, s)
		case !ownedBy(t, req):
			taken = append(taken, s)
		}
	}
	if len(taken) > 0 {
		return Result{}, &ConflictError{Seats: taken}
	}

	log := f.Resolver.Log.With(zap.Uint64("session_id", req.SessionID))
	if len(free) == 0 {
		log.Info("order already finalized", zap.Int("seats", len(req.Seats)))
		return Result{Tickets: inOrder(req.Seats, existing), Replayed: true}, nil
	}
	if len(free) < len(req.Seats) {
		log.Info("completing partially finalized order",
			zap.Int("owned", len(req.Seats)-len(free)),
			zap.Int("missing", len(free)))
	}

	created, err := f.Resolver.commit(ctx, req, free)
	if err != nil {
		return Result{}, err
	}
	for _, t := range created {
		existing[t.Position()] = t
	}
	return Result{Tickets: inOrder(req.Seats, existing)}, nil
}

// ownedBy decides whether t belongs to the requester of req.  A request
// with an order id owns only tickets of that order.  Without one the user
// ids must match, and two anonymous parties are treated as the same
// requester.
func ownedBy(t model.Ticket, req Request) bool {
	if req.OrderID != nil {
		return t.OrderID != nil && *t.OrderID == *req.OrderID
	}
	if req.UserID == nil && t.UserID == nil {
		return true
	}
	return req.UserID != nil && t.UserID != nil && *req.UserID == *t.UserID
}

func inOrder(seats []model.SeatPosition, byPos map[model.SeatPosition]model.Ticket) []model.Ticket {
	out := make([]model.Ticket, 0, len(seats))
	for _, s := range seats {
		out = append(out, byPos[s])
	}
	return out
}
