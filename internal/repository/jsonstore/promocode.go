package jsonstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// promocodeDoc is a promocode as the backend stores it.  Dates are plain
// strings there and are not always full RFC 3339.
type promocodeDoc struct {
	ID        model.ID `json:"id"`
	Code      string   `json:"code"`
	Value     int      `json:"value"`
	IsActive  bool     `json:"isActive"`
	StartsAt  string   `json:"startsAt"`
	ExpiresAt string   `json:"expiresAt"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FindByCode fetches GET /promocodes?code=<code> and returns the first
// match.
func (c *Client) FindByCode(ctx context.Context, code string) (*model.Promocode, error) {
	var docs []promocodeDoc
	if err := c.do(ctx, http.MethodGet, "/promocodes?"+url.Values{"code": {code}}.Encode(), nil, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	d := docs[0]
	starts, err := parseDate(d.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("promocode %s startsAt: %w", d.Code, err)
	}
	expires, err := parseDate(d.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("promocode %s expiresAt: %w", d.Code, err)
	}
	return &model.Promocode{
		ID:        d.ID,
		Code:      d.Code,
		Value:     d.Value,
		IsActive:  d.IsActive,
		StartsAt:  starts,
		ExpiresAt: expires,
	}, nil
}
