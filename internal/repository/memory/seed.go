package memory

import (
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/pricing"
)

// AddHall, AddSession and AddPromocode populate the store.

func (s *Store) AddHall(h model.Hall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halls[h.ID] = h
}

func (s *Store) AddSession(v model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[v.ID] = v
}

func (s *Store) AddPromocode(p model.Promocode) {
	p.Code = pricing.NormalizeCode(p.Code)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promocodes[p.Code] = p
}

// Seed fills the store with a small demo catalogue: one 8×12 hall, two
// sessions in it and a 20% promocode valid for a year around now.
func (s *Store) Seed(now time.Time) {
	s.AddHall(model.Hall{ID: 1, Name: "Hall 1", Rows: 8, Cols: 12})
	s.AddSession(model.Session{ID: 1, MovieID: 1, HallID: 1, Date: now.Format("2006-01-02"), Time: "18:00", Format: "2D", Price: 150})
	s.AddSession(model.Session{ID: 2, MovieID: 2, HallID: 1, Date: now.Format("2006-01-02"), Time: "21:00", Format: "3D", Price: 200})
	s.AddPromocode(model.Promocode{
		ID:        "1",
		Code:      "SAVE20",
		Value:     20,
		IsActive:  true,
		StartsAt:  now.AddDate(0, -6, 0),
		ExpiresAt: now.AddDate(0, 6, 0),
	})
}
