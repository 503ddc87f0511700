package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// PendingOrderRepo keeps pending orders in Redis as JSON under
// "order:<order id>" with a TTL, so abandoned checkouts disappear on
// their own.
type PendingOrderRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPendingOrderRepo returns a repo writing with the given TTL.  A zero
// TTL stores orders without expiry.
func NewPendingOrderRepo(rdb *redis.Client, ttl time.Duration) *PendingOrderRepo {
	return &PendingOrderRepo{rdb: rdb, ttl: ttl}
}

func orderKey(id string) string { return "order:" + id }

// SaveOrder writes o, replacing any earlier value.
func (r *PendingOrderRepo) SaveOrder(ctx context.Context, o model.PendingOrder) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, orderKey(o.OrderID), b, r.ttl).Err()
}

// GetOrder reads a pending order.  A missing or expired key returns
// ErrNotFound.
func (r *PendingOrderRepo) GetOrder(ctx context.Context, orderID string) (*model.PendingOrder, error) {
	b, err := r.rdb.Get(ctx, orderKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var o model.PendingOrder
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteOrder removes a pending order once it has been finalized.
func (r *PendingOrderRepo) DeleteOrder(ctx context.Context, orderID string) error {
	return r.rdb.Del(ctx, orderKey(orderID)).Err()
}
