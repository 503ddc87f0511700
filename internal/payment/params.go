package payment

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// SuccessParams are read from the result URL the customer lands on.
type SuccessParams struct {
	OrderID     string
	SessionID   uint64
	Seats       []model.SeatPosition
	Amount      string
	Description string
}

// ParseSuccessParams reads orderId, sessionId and seats, all required.
// Seats is JSON and may carry one extra layer of percent encoding.
// Amount and description are optional and default to "".
func ParseSuccessParams(q url.Values) (SuccessParams, error) {
	orderID, sid, rawSeats := q.Get("orderId"), q.Get("sessionId"), q.Get("seats")
	if orderID == "" || sid == "" || rawSeats == "" {
		return SuccessParams{}, fmt.Errorf("%w: orderId, sessionId and seats are required", ErrInvalidParams)
	}
	sessionID, err := strconv.ParseUint(sid, 10, 64)
	if err != nil || sessionID == 0 {
		return SuccessParams{}, fmt.Errorf("%w: invalid session ID", ErrInvalidParams)
	}
	seats, err := DecodeSeats(rawSeats)
	if err != nil {
		return SuccessParams{}, err
	}
	return SuccessParams{
		OrderID:     orderID,
		SessionID:   sessionID,
		Seats:       seats,
		Amount:      q.Get("amount"),
		Description: q.Get("description"),
	}, nil
}

// CheckoutParams are the query parameters of the payment page.
type CheckoutParams struct {
	SessionID   uint64
	Seats       []model.SeatPosition
	Amount      float64
	Description string
}

// ParseCheckoutParams validates the payment page query: every field is
// required, sessionId and amount must be positive and seats a non-empty
// JSON array.
func ParseCheckoutParams(q url.Values) (CheckoutParams, error) {
	sid, rawSeats, amt, desc := q.Get("sessionId"), q.Get("seats"), q.Get("amount"), q.Get("description")
	if sid == "" || rawSeats == "" || amt == "" || desc == "" {
		return CheckoutParams{}, fmt.Errorf("%w: missing required payment parameters", ErrInvalidParams)
	}
	sessionID, err := strconv.ParseUint(sid, 10, 64)
	if err != nil || sessionID == 0 {
		return CheckoutParams{}, fmt.Errorf("%w: invalid session ID", ErrInvalidParams)
	}
	amount, err := strconv.ParseFloat(amt, 64)
	if err != nil || amount <= 0 {
		return CheckoutParams{}, fmt.Errorf("%w: invalid amount", ErrInvalidParams)
	}
	seats, err := DecodeSeats(rawSeats)
	if err != nil {
		return CheckoutParams{}, err
	}
	if len(seats) == 0 {
		return CheckoutParams{}, fmt.Errorf("%w: invalid seats data", ErrInvalidParams)
	}
	return CheckoutParams{SessionID: sessionID, Seats: seats, Amount: amount, Description: desc}, nil
}

// DecodeSeats parses a JSON seat list, unescaping it first when it arrives
// percent-encoded.
func DecodeSeats(raw string) ([]model.SeatPosition, error) {
	var seats []model.SeatPosition
	if err := json.Unmarshal([]byte(raw), &seats); err == nil {
		return seats, nil
	}
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid seats format", ErrInvalidParams)
	}
	if err := json.Unmarshal([]byte(unescaped), &seats); err != nil {
		return nil, fmt.Errorf("%w: invalid seats format", ErrInvalidParams)
	}
	return seats, nil
}
