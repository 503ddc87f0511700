// Package jsonstore is the storage driver for the external REST JSON
// backend (a json-server style API).  The backend has no uniqueness
// constraints: two concurrent bookings of the same seat can both be
// accepted between the conflict check and the create.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the backend at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client with a 10s request timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
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
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return repository.ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &StatusError{Method: method, Path: path, Code: res.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// ListBySession fetches GET /tickets?sessionId=<id>.
func (c *Client) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	var out []model.Ticket
	path := "/tickets?" + url.Values{"sessionId": {strconv.FormatUint(sessionID, 10)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts one ticket and copies the assigned id back into t.
func (c *Client) Create(ctx context.Context, t *model.Ticket) error {
	var created model.Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", t, &created); err != nil {
		return err
	}
	t.ID = created.ID
	return nil
}

// GetSession fetches GET /sessions/<id>.
func (c *Client) GetSession(ctx context.Context, id uint64) (*model.Session, error) {
	var s model.Session
	if err := c.do(ctx, http.MethodGet, "/sessions/"+strconv.FormatUint(id, 10), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetHall fetches GET /halls/<id>.
func (c *Client) GetHall(ctx context.Context, id uint64) (*model.Hall, error) {
	var h model.Hall
	if err := c.do(ctx, http.MethodGet, "/halls/"+strconv.FormatUint(id, 10), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
