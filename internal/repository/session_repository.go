package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// SessionRepo reads sessions (showtimes) from MySQL.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// GetSession retrieves a session by id.  Date and time come back formatted
// as YYYY-MM-DD and HH:MM.
func (r *SessionRepo) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT id, movie_id, hall_id, DATE_FORMAT(show_date, '%Y-%m-%d'), TIME_FORMAT(show_time, '%H:%i'), format, price
               FROM sessions WHERE id = ?`
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.HallID, &s.Date, &s.Time, &s.Format, &s.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
