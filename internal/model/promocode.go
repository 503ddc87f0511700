package model

import "time"

// Promocode is a percentage discount code.  Code is stored upper-cased.
// A promocode is usable at time now iff IsActive and
// StartsAt <= now <= ExpiresAt.
type Promocode struct {
	ID        ID        `json:"id"`
	Code      string    `json:"code"`
	Value     int       `json:"value"` // percent, 0..100
	IsActive  bool      `json:"isActive"`
	StartsAt  time.Time `json:"startsAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
