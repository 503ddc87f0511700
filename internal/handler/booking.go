package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/pricing"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/seating"
)

// BookingHandler serves the seat map, price sidebar and direct ticket
// booking.
type BookingHandler struct {
	Resolver *booking.Resolver
	Catalog  Catalog
	Promos   *pricing.Validator
	Log      *zap.Logger
}

// NewBookingHandler panics when a dependency is missing.
func NewBookingHandler(r *booking.Resolver, catalog Catalog, promos *pricing.Validator, log *zap.Logger) *BookingHandler {
	if r == nil || catalog == nil || promos == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Resolver: r, Catalog: catalog, Promos: promos, Log: orNop(log)}
}

type seatsRequest struct {
	SessionID uint64               `json:"sessionId" validate:"required"`
	Seats     []model.SeatPosition `json:"seats" validate:"required,min=1,dive"`
	UserID    *string              `json:"userId"`
}

// bindSeats binds and validates a {sessionId, seats} body.  It writes the
// 400 response itself and returns ok=false when the body is unusable.
func bindSeats(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		if seatFieldMistyped(err) {
			return false, message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
		}
		return false, message(c, http.StatusBadRequest, booking.MsgSeatsRequired)
	}
	if err := c.Validate(req); err != nil {
		if seatFieldFailed(err) {
			return false, message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
		}
		return false, message(c, http.StatusBadRequest, booking.MsgSeatsRequired)
	}
	return true, nil
}

// CreateTickets handles POST /v1/tickets.  The whole batch is rejected
// with 409 when any seat is already taken.
func (h *BookingHandler) CreateTickets(c echo.Context) error {
	var req seatsRequest
	if ok, err := bindSeats(c, &req); !ok {
		return err
	}
	tickets, err := h.Resolver.Book(c.Request().Context(), booking.Request{
		SessionID: req.SessionID,
		Seats:     req.Seats,
		UserID:    requester(c, req.UserID),
	})
	if err != nil {
		return bookingError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": msgCreated, "tickets": tickets})
}

// seatMap is the session grid with the caller's selection applied.
type seatMap struct {
	SessionID     uint64         `json:"sessionId"`
	Hall          model.Hall     `json:"hall"`
	Price         int64          `json:"price"`
	Grid          [][]model.Seat `json:"grid"`
	Selected      []model.Seat   `json:"selected"`
	SelectedCount int            `json:"selectedCount"`
	TotalPrice    int64          `json:"totalPrice"`
}

// loadSeatMap resolves session, hall and committed tickets.  A nil map
// means the response was already written.
func (h *BookingHandler) loadSeatMap(c echo.Context, sessionID uint64, selected []model.Seat) (*seatMap, []model.Ticket, error) {
	ctx := c.Request().Context()
	sess, ok, err := lookupSession(c, h.Catalog, sessionID)
	if !ok {
		return nil, nil, err
	}
	hall, err := h.Catalog.GetHall(ctx, sess.HallID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, message(c, http.StatusNotFound, msgHallNotFound)
	}
	if err != nil {
		return nil, nil, message(c, http.StatusInternalServerError, err.Error())
	}
	committed, err := h.Resolver.Store.ListBySession(ctx, sessionID)
	if err != nil {
		h.Log.Error("list tickets", zap.Uint64("session_id", sessionID), zap.Error(err))
		return nil, nil, message(c, http.StatusInternalServerError, err.Error())
	}
	grid := seating.GenerateGrid(hall.Rows, hall.Cols, committed, selected)
	picked := selectedCells(grid, selected)
	return &seatMap{
		SessionID:     sessionID,
		Hall:          *hall,
		Price:         sess.Price,
		Grid:          grid,
		Selected:      picked,
		SelectedCount: len(picked),
		TotalPrice:    pricing.BasePrice(len(picked), sess.Price),
	}, committed, nil
}

// selectedCells keeps the part of the selection the grid still shows as
// selected, dropping seats that are occupied or outside the hall.
func selectedCells(grid [][]model.Seat, selected []model.Seat) []model.Seat {
	out := make([]model.Seat, 0, len(selected))
	seen := make(map[model.SeatPosition]bool, len(selected))
	for _, s := range selected {
		if s.Row < 1 || s.Row > len(grid) || s.Col < 1 || s.Col > len(grid[s.Row-1]) || seen[s.Position()] {
			continue
		}
		seen[s.Position()] = true
		if cell := grid[s.Row-1][s.Col-1]; cell.Status == model.SeatSelected {
			out = append(out, cell)
		}
	}
	return out
}

// Seats handles GET /v1/sessions/:id/seats?selected=<json>.
func (h *BookingHandler) Seats(c echo.Context) error {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, msgInvalidID)
	}
	var selected []model.Seat
	if raw := c.QueryParam("selected"); raw != "" {
		positions, err := payment.DecodeSeats(raw)
		if err != nil {
			return message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
		}
		selected = seating.FromPositions(positions)
	}
	m, _, err := h.loadSeatMap(c, sessionID, selected)
	if m == nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

type toggleRequest struct {
	Row      int                  `json:"row" validate:"required,min=1"`
	Col      int                  `json:"col" validate:"required,min=1"`
	Selected []model.SeatPosition `json:"selected" validate:"dive"`
}

// ToggleSeat handles POST /v1/sessions/:id/seats/toggle.  The client owns
// the selection; the response carries the updated one.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, msgInvalidID)
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
	}
	if err := c.Validate(&req); err != nil {
		return message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
	}
	m, committed, err := h.loadSeatMap(c, sessionID, seating.FromPositions(req.Selected))
	if m == nil {
		return err
	}
	if !m.Hall.Contains(req.Row, req.Col) {
		return message(c, http.StatusBadRequest, "Seat is outside the hall.")
	}
	if seating.StatusOf(req.Row, req.Col, committed, nil) == model.SeatOccupied {
		return message(c, http.StatusConflict, (&booking.ConflictError{
			Seats: []model.SeatPosition{{Row: req.Row, Col: req.Col}},
		}).Error())
	}
	next := seating.ToggleSelection(req.Row, req.Col, m.Selected)
	return c.JSON(http.StatusOK, echo.Map{
		"selected":      seating.Positions(next),
		"selectedCount": len(next),
		"totalPrice":    pricing.BasePrice(len(next), m.Price),
	})
}

type quoteRequest struct {
	Seats     []model.SeatPosition `json:"seats" validate:"dive"`
	Promocode string               `json:"promocode"`
}

type quoteResponse struct {
	Count     int      `json:"count"`
	UnitPrice int64    `json:"unitPrice"`
	Labels    []string `json:"labels"`
	pricing.Discount
	Promocode *pricing.Result `json:"promocode,omitempty"`
}

// Quote handles POST /v1/sessions/:id/quote.  It is recomputed from the
// current session price and promocode on every call.
func (h *BookingHandler) Quote(c echo.Context) error {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, msgInvalidID)
	}
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
	}
	if err := c.Validate(&req); err != nil {
		return message(c, http.StatusBadRequest, booking.MsgSeatRowCol)
	}
	sess, ok, err := lookupSession(c, h.Catalog, sessionID)
	if !ok {
		return err
	}
	resp, err := quote(c, h.Promos, sess, req.Seats, req.Promocode)
	if err != nil {
		h.Log.Error("promocode lookup", zap.Error(err))
		return message(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// quote prices seats for a session, applying the promocode only when it
// is currently valid.
func quote(c echo.Context, promos *pricing.Validator, sess *model.Session, seats []model.SeatPosition, code string) (quoteResponse, error) {
	resp := quoteResponse{Count: len(seats), UnitPrice: sess.Price, Labels: make([]string, 0, len(seats))}
	for _, s := range seats {
		resp.Labels = append(resp.Labels, seating.SeatLabel(s.Row, s.Col))
	}
	var applied *model.Promocode
	if pricing.NormalizeCode(code) != "" {
		res, err := promos.Validate(c.Request().Context(), code)
		if err != nil {
			return quoteResponse{}, err
		}
		resp.Promocode = &res
		if res.Valid {
			applied = res.Promocode
		}
	}
	resp.Discount = pricing.Quote(len(seats), sess.Price, applied)
	return resp, nil
}
