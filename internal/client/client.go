// Package client calls the booking service over HTTP.  It is what the
// ticketctl CLI uses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/pricing"
)

// APIError is a non-2xx answer carrying the service's {"message"} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
}

// IsConflict reports whether err is a 409 from the service.
func IsConflict(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusConflict
}

// Client talks to the service at BaseURL.  Token, when set, is sent as a
// bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a Client with a 15s request timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var m struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &m) != nil || m.Message == "" {
			m.Message = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: res.StatusCode, Message: m.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// SeatMap is the session grid as served by the seats endpoint.
type SeatMap struct {
	SessionID     uint64         `json:"sessionId"`
	Hall          model.Hall     `json:"hall"`
	Price         int64          `json:"price"`
	Grid          [][]model.Seat `json:"grid"`
	Selected      []model.Seat   `json:"selected"`
	SelectedCount int            `json:"selectedCount"`
	TotalPrice    int64          `json:"totalPrice"`
}

// Seats fetches the grid of a session with selected applied.
func (c *Client) Seats(ctx context.Context, sessionID uint64, selected []model.SeatPosition) (SeatMap, error) {
	path := "/v1/sessions/" + strconv.FormatUint(sessionID, 10) + "/seats"
	if len(selected) > 0 {
		js, err := json.Marshal(selected)
		if err != nil {
			return SeatMap{}, err
		}
		path += "?" + url.Values{"selected": {string(js)}}.Encode()
	}
	var m SeatMap
	err := c.do(ctx, http.MethodGet, path, nil, &m)
	return m, err
}

// Quote is the price breakdown for a set of seats.
type Quote struct {
	Count     int      `json:"count"`
	UnitPrice int64    `json:"unitPrice"`
	Labels    []string `json:"labels"`
	pricing.Discount
	Promocode *pricing.Result `json:"promocode,omitempty"`
}

// Quote prices seats for a session, with an optional promocode.
func (c *Client) Quote(ctx context.Context, sessionID uint64, seats []model.SeatPosition, code string) (Quote, error) {
	var q Quote
	in := map[string]any{"seats": seats, "promocode": code}
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+strconv.FormatUint(sessionID, 10)+"/quote", in, &q)
	return q, err
}

// BookResult is the outcome of Book.  Replayed is true when the service
// answered that the seats are already occupied; Tickets is empty then.
type BookResult struct {
	Message  string         `json:"message"`
	Tickets  []model.Ticket `json:"tickets"`
	Replayed bool           `json:"-"`
}

// Book creates tickets directly.  A conflict whose message says the
// seat is already occupied is treated as an earlier successful attempt
// of the same booking and returned without error.
func (c *Client) Book(ctx context.Context, sessionID uint64, seats []model.SeatPosition, userID string) (BookResult, error) {
	in := map[string]any{"sessionId": sessionID, "seats": seats}
	if userID != "" {
		in["userId"] = userID
	}
	var res BookResult
	err := c.do(ctx, http.MethodPost, "/v1/tickets", in, &res)
	var ae *APIError
	if errors.As(err, &ae) && ae.Status == http.StatusConflict && strings.Contains(ae.Message, "already occupied") {
		return BookResult{Message: ae.Message, Replayed: true}, nil
	}
	return res, err
}

// Pay asks the service for a signed checkout payload.
func (c *Client) Pay(ctx context.Context, sessionID uint64, seats []model.SeatPosition, code, description string) (payment.Payload, error) {
	in := map[string]any{"sessionId": sessionID, "seats": seats}
	if code != "" {
		in["promocode"] = code
	}
	if description != "" {
		in["description"] = description
	}
	var p payment.Payload
	err := c.do(ctx, http.MethodPost, "/v1/payments/generate", in, &p)
	return p, err
}
