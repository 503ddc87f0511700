package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// SessionFinder looks up a session by id.
type SessionFinder interface {
	GetSession(ctx context.Context, id uint64) (*model.Session, error)
}

// HallFinder looks up a hall by id.
type HallFinder interface {
	GetHall(ctx context.Context, id uint64) (*model.Hall, error)
}

// Catalog is the read side the seat and price endpoints need.
type Catalog interface {
	SessionFinder
	HallFinder
}

// OrderStore keeps pending orders between payload generation and the
// gateway callback.
type OrderStore interface {
	SaveOrder(ctx context.Context, o model.PendingOrder) error
	GetOrder(ctx context.Context, orderID string) (*model.PendingOrder, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

const (
	msgInternal        = "Internal server error"
	msgCreateFailed    = "Failed to create tickets."
	msgCreated         = "Tickets created successfully"
	msgSessionNotFound = "Session not found"
	msgHallNotFound    = "Hall not found"
	msgInvalidID       = "invalid id"
)

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"message": msg})
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// requester picks the ticket owner: the authenticated subject wins over a
// userId sent in the body.
func requester(c echo.Context, bodyUserID *string) *string {
	if id := middleware.UserID(c); id != nil {
		return id
	}
	if bodyUserID != nil && *bodyUserID != "" {
		return bodyUserID
	}
	return nil
}

// bookingError maps resolver and finalizer errors onto responses.
func bookingError(c echo.Context, log *zap.Logger, err error) error {
	var re *booking.RequestError
	if errors.As(err, &re) {
		return message(c, http.StatusBadRequest, re.Message)
	}
	var ce *booking.ConflictError
	if errors.As(err, &ce) {
		return message(c, http.StatusConflict, ce.Error())
	}
	var be *booking.BatchError
	if errors.As(err, &be) {
		log.Error("ticket batch failed",
			zap.Int("created", len(be.Created)),
			zap.Int("failed_at", be.FailedAt),
			zap.Error(be.Err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": msgCreateFailed,
			"created": be.Created,
		})
	}
	log.Error("booking failed", zap.Error(err))
	return message(c, http.StatusInternalServerError, err.Error())
}

// lookupSession loads a session and writes the error response itself
// when it fails; ok is false in that case.
func lookupSession(c echo.Context, sessions SessionFinder, id uint64) (*model.Session, bool, error) {
	s, err := sessions.GetSession(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, message(c, http.StatusNotFound, msgSessionNotFound)
	}
	if err != nil {
		return nil, false, message(c, http.StatusInternalServerError, err.Error())
	}
	return s, true, nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
