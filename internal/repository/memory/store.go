// Package memory is an in-process storage driver.  It backs local runs
// without a REST store or database and the tests of the packages above
// it.  Ticket creation is atomic per seat: a second ticket for the same
// seat of a session is refused with repository.ErrConflict.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

type seatKey struct {
	session  uint64
	row, col int
}

// Store keeps tickets, promocodes, sessions, halls and pending orders in
// maps guarded by a single mutex.
type Store struct {
	mu         sync.RWMutex
	tickets    []model.Ticket
	seats      map[seatKey]struct{}
	promocodes map[string]model.Promocode
	sessions   map[uint64]model.Session
	halls      map[uint64]model.Hall
	orders     map[string]order
	orderTTL   time.Duration
	now        func() time.Time
}

type order struct {
	model.PendingOrder
	expires time.Time
}

// New returns an empty Store.  Pending orders live for orderTTL; zero
// keeps them until deleted.
func New(orderTTL time.Duration) *Store {
	return &Store{
		seats:      map[seatKey]struct{}{},
		promocodes: map[string]model.Promocode{},
		sessions:   map[uint64]model.Session{},
		halls:      map[uint64]model.Hall{},
		orders:     map[string]order{},
		orderTTL:   orderTTL,
		now:        time.Now,
	}
}

// ListBySession returns a copy of the tickets of sessionID in creation order.
func (s *Store) ListBySession(_ context.Context, sessionID uint64) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Ticket
	for _, t := range s.tickets {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Create stores t and assigns it an id.
func (s *Store) Create(ctx context.Context, t *model.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := seatKey{t.SessionID, t.Row, t.Col}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.seats[k]; taken {
		return repository.ErrConflict
	}
	t.ID = model.ID(uuid.NewString())
	s.seats[k] = struct{}{}
	s.tickets = append(s.tickets, *t)
	return nil
}

// FindByCode looks up an already normalized promocode.
func (s *Store) FindByCode(_ context.Context, code string) (*model.Promocode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.promocodes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// GetSession returns the session with the given id.
func (s *Store) GetSession(_ context.Context, id uint64) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

// GetHall returns the hall with the given id.
func (s *Store) GetHall(_ context.Context, id uint64) (*model.Hall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.halls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

// SaveOrder stores o under its order id, replacing any earlier entry.
func (s *Store) SaveOrder(_ context.Context, o model.PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if s.orderTTL > 0 {
		exp = s.now().Add(s.orderTTL)
	}
	s.orders[o.OrderID] = order{PendingOrder: o, expires: exp}
	return nil
}

// GetOrder returns the pending order, or repository.ErrNotFound once it
// expired or was deleted.
func (s *Store) GetOrder(_ context.Context, orderID string) (*model.PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok || (!o.expires.IsZero() && s.now().After(o.expires)) {
		return nil, repository.ErrNotFound
	}
	p := o.PendingOrder
	return &p, nil
}

// DeleteOrder drops a pending order.  Deleting an unknown id is not an error.
func (s *Store) DeleteOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, orderID)
	return nil
}
