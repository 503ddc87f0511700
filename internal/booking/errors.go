package booking

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// ErrInvalidRequest marks a booking request that failed validation.
// Match it with errors.Is; the concrete error is a *RequestError.
var ErrInvalidRequest = errors.New("invalid request")

// Messages shown to the customer for malformed requests.
const (
	MsgSeatsRequired = "Invalid request. sessionId and seats array are required."
	MsgSeatRowCol    = "Each seat must have row and col numbers."
)

// RequestError is a validation failure with a customer-facing message.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Is(target error) bool { return target == ErrInvalidRequest }

func invalid(msg string) error {
	return &RequestError{Message: msg}
}

// ConflictError reports seats that already hold a committed ticket.
// Seats keeps the caller's order; the message names the first one.
type ConflictError struct {
	Seats []model.SeatPosition
}

func (e *ConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "Seat is already occupied."
	}
	s := e.Seats[0]
	return fmt.Sprintf("Seat at row %d, col %d is already occupied.", s.Row, s.Col)
}

// BatchError reports a batch that failed part way.  Tickets in Created
// stay committed; there is no rollback.  FailedAt is the index of Seat in
// the batch that was being created.
type BatchError struct {
	Created  []model.Ticket
	FailedAt int
	Seat     model.SeatPosition
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("create ticket %d (row %d, col %d) after %d created: %v",
		e.FailedAt, e.Seat.Row, e.Seat.Col, len(e.Created), e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
