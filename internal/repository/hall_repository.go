package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// HallRepo reads hall layouts from MySQL.  seat_rows and seat_cols bound
// the seat grid of every session in the hall.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// GetHall retrieves a hall by its ID.  It returns ErrNotFound when no row
// is found.
func (r *HallRepo) GetHall(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name, seat_rows, seat_cols FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.Rows, &h.Cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}
