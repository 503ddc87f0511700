package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// PromocodeRepo reads promocodes from MySQL.
type PromocodeRepo struct {
	db *sql.DB
}

// NewPromocodeRepo constructs a PromocodeRepo with the given DB handle.
func NewPromocodeRepo(db *sql.DB) *PromocodeRepo { return &PromocodeRepo{db: db} }

// FindByCode returns the promocode stored under code, which must already be
// normalized.  It returns ErrNotFound when no row matches.
func (r *PromocodeRepo) FindByCode(ctx context.Context, code string) (*model.Promocode, error) {
	const q = `SELECT id, code, value, is_active, starts_at, expires_at FROM promocodes WHERE code = ? LIMIT 1`
	var (
		p  model.Promocode
		id uint64
	)
	err := r.db.QueryRowContext(ctx, q, code).Scan(&id, &p.Code, &p.Value, &p.IsActive, &p.StartsAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.ID = model.FromUint(id)
	return &p, nil
}
