package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/pricing"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/seating"
)

const (
	msgInvalidPayment = "Invalid request. All fields are required and must be valid."
	msgAmountMismatch = "Amount does not match the current price"
	msgMissingData    = "Missing payment data or signature"
	msgBadSignature   = "Invalid signature"
	msgBadData        = "Invalid payment data format"
	msgOrderMismatch  = "Order details do not match"
	msgReplayed       = "Tickets already issued"
	msgUnknownOrder   = "Unknown or expired order"
)

// PaymentHandler prepares LiqPay checkouts and turns paid orders into
// tickets.  Orders may be nil, in which case only the success page
// finalizes tickets.
type PaymentHandler struct {
	Gateway   *payment.Gateway
	Sessions  SessionFinder
	Promos    *pricing.Validator
	Finalizer *booking.Finalizer
	Orders    OrderStore
	Log       *zap.Logger
	now       func() time.Time
}

func NewPaymentHandler(gw *payment.Gateway, sessions SessionFinder, promos *pricing.Validator, fin *booking.Finalizer, orders OrderStore, log *zap.Logger) *PaymentHandler {
	if gw == nil || sessions == nil || promos == nil || fin == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{
		Gateway:   gw,
		Sessions:  sessions,
		Promos:    promos,
		Finalizer: fin,
		Orders:    orders,
		Log:       orNop(log),
		now:       time.Now,
	}
}

type generateRequest struct {
	SessionID   uint64               `json:"sessionId" validate:"required"`
	Seats       []model.SeatPosition `json:"seats" validate:"required,min=1,dive"`
	Description string               `json:"description"`
	Amount      *decimal.Decimal     `json:"amount"`
	Promocode   string               `json:"promocode"`
}

// Generate handles POST /v1/payments/generate.  The amount is always
// computed here; a client amount is only checked against it.
func (h *PaymentHandler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, msgInvalidPayment)
	}
	if err := c.Validate(&req); err != nil {
		return message(c, http.StatusBadRequest, msgInvalidPayment)
	}
	if err := booking.ValidateSeats(req.Seats); err != nil {
		return bookingError(c, h.Log, err)
	}
	sess, ok, err := lookupSession(c, h.Sessions, req.SessionID)
	if !ok {
		return err
	}
	q, err := quote(c, h.Promos, sess, req.Seats, req.Promocode)
	if err != nil {
		h.Log.Error("promocode lookup", zap.Error(err))
		return message(c, http.StatusInternalServerError, err.Error())
	}
	if q.Promocode != nil && !q.Promocode.Valid {
		return message(c, http.StatusBadRequest, q.Promocode.Message)
	}
	if req.Amount != nil && !req.Amount.Equal(decimal.NewFromInt(q.FinalPrice)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgAmountMismatch, "amount": q.FinalPrice})
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = fmt.Sprintf("Cinema tickets: session %d, seats %s", sess.ID, strings.Join(q.Labels, ", "))
	}

	orderID := h.Gateway.NewOrderID()
	p, err := h.Gateway.CreatePayload(payment.Params{
		Amount:      q.FinalPrice,
		Description: desc,
		OrderID:     orderID,
		SessionID:   req.SessionID,
		Seats:       req.Seats,
	})
	if errors.Is(err, payment.ErrInvalidParams) {
		// a 100% promocode leaves nothing to charge
		return message(c, http.StatusBadRequest, msgInvalidPayment)
	}
	if err != nil {
		h.Log.Error("create payment payload", zap.Error(err))
		return message(c, http.StatusInternalServerError, msgInternal)
	}
	if h.Orders != nil {
		order := model.PendingOrder{
			OrderID:     orderID,
			SessionID:   req.SessionID,
			Seats:       req.Seats,
			Amount:      q.FinalPrice,
			Description: desc,
			UserID:      requester(c, nil),
			CreatedAt:   h.now(),
		}
		if err := h.Orders.SaveOrder(c.Request().Context(), order); err != nil {
			h.Log.Error("save pending order", zap.String("order_id", orderID), zap.Error(err))
			return message(c, http.StatusInternalServerError, msgInternal)
		}
	}
	h.Log.Info("payment payload created",
		zap.String("order_id", orderID),
		zap.Uint64("session_id", req.SessionID),
		zap.Int64("amount", q.FinalPrice))
	return c.JSON(http.StatusOK, p)
}

// Callback handles the gateway's server-to-server notification.  The
// signature is checked before anything in data is trusted.
func (h *PaymentHandler) Callback(c echo.Context) error {
	data, signature := c.FormValue("data"), c.FormValue("signature")
	if data == "" || signature == "" {
		return message(c, http.StatusBadRequest, msgMissingData)
	}
	cb, err := h.Gateway.VerifyAndDecode(data, signature)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		h.Log.Warn("callback signature rejected")
		return message(c, http.StatusBadRequest, msgBadSignature)
	case err != nil:
		h.Log.Warn("callback data rejected", zap.Error(err))
		return message(c, http.StatusBadRequest, msgBadData)
	}

	log := h.Log.With(zap.String("order_id", cb.OrderID), zap.String("status", cb.Status))
	if !payment.IsSuccessful(cb.Status) {
		log.Info("payment failed", zap.String("err_code", cb.ErrCode))
		return c.JSON(http.StatusOK, echo.Map{"status": "failed", "order_id": cb.OrderID})
	}
	log.Info("payment successful", zap.String("amount", cb.Amount.String()))
	h.finalizeOrder(c, log, cb)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "order_id": cb.OrderID})
}

// finalizeOrder issues the tickets of a pending order after a successful
// callback.  Failures are logged; the gateway is still acknowledged.
func (h *PaymentHandler) finalizeOrder(c echo.Context, log *zap.Logger, cb payment.Callback) {
	if h.Orders == nil {
		return
	}
	ctx := c.Request().Context()
	order, err := h.Orders.GetOrder(ctx, cb.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("no pending order for callback")
		return
	}
	if err != nil {
		log.Error("load pending order", zap.Error(err))
		return
	}
	if !cb.Amount.Equal(decimal.NewFromInt(order.Amount)) {
		log.Error("callback amount does not match order",
			zap.String("paid", cb.Amount.String()),
			zap.Int64("expected", order.Amount))
		return
	}
	res, err := h.Finalizer.Finalize(ctx, booking.Request{
		SessionID: order.SessionID,
		Seats:     order.Seats,
		UserID:    order.UserID,
		OrderID:   &order.OrderID,
	})
	if err != nil {
		log.Error("finalize paid order", zap.Error(err))
		return
	}
	log.Info("order finalized", zap.Int("tickets", len(res.Tickets)), zap.Bool("replayed", res.Replayed))
	if err := h.Orders.DeleteOrder(ctx, cb.OrderID); err != nil {
		log.Warn("delete pending order", zap.Error(err))
	}
}

// Success handles the page the customer returns to from the gateway.  It
// finalizes the order; a repeat visit replays the same tickets.  An order
// id the store does not know is refused unless its seats were already
// issued by the callback.
func (h *PaymentHandler) Success(c echo.Context) error {
	sp, err := payment.ParseSuccessParams(c.QueryParams())
	if err != nil {
		return message(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), payment.ErrInvalidParams.Error()+": "))
	}
	ctx := c.Request().Context()
	userID := requester(c, nil)
	if h.Orders != nil {
		order, err := h.Orders.GetOrder(ctx, sp.OrderID)
		switch {
		case err == nil:
			if order.SessionID != sp.SessionID || !sameSeats(order.Seats, sp.Seats) {
				return message(c, http.StatusBadRequest, msgOrderMismatch)
			}
			if userID == nil {
				userID = order.UserID
			}
		case errors.Is(err, repository.ErrNotFound):
			issued, err := h.issuedTo(ctx, sp.OrderID, sp.SessionID, sp.Seats)
			if err != nil {
				h.Log.Error("list tickets", zap.Uint64("session_id", sp.SessionID), zap.Error(err))
				return message(c, http.StatusInternalServerError, msgInternal)
			}
			if !issued {
				return message(c, http.StatusBadRequest, msgUnknownOrder)
			}
		default:
			h.Log.Error("load pending order", zap.String("order_id", sp.OrderID), zap.Error(err))
		}
	}
	res, err := h.Finalizer.Finalize(ctx, booking.Request{
		SessionID: sp.SessionID,
		Seats:     sp.Seats,
		UserID:    userID,
		OrderID:   &sp.OrderID,
	})
	if err != nil {
		return bookingError(c, h.Log, err)
	}
	msg := msgCreated
	if res.Replayed {
		msg = msgReplayed
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     msg,
		"orderId":     sp.OrderID,
		"tickets":     res.Tickets,
		"replayed":    res.Replayed,
		"amount":      sp.Amount,
		"description": sp.Description,
	})
}

// Checkout validates the payment page query before the form is shown.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	cp, err := payment.ParseCheckoutParams(c.QueryParams())
	if err != nil {
		return message(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), payment.ErrInvalidParams.Error()+": "))
	}
	labels := make([]string, 0, len(cp.Seats))
	for _, s := range cp.Seats {
		labels = append(labels, seating.SeatLabel(s.Row, s.Col))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"sessionId":   cp.SessionID,
		"seats":       cp.Seats,
		"labels":      labels,
		"amount":      cp.Amount,
		"description": cp.Description,
	})
}

// issuedTo reports whether every seat already carries a ticket of the
// order, which is the state a confirmed callback leaves behind.
func (h *PaymentHandler) issuedTo(ctx context.Context, orderID string, sessionID uint64, seats []model.SeatPosition) (bool, error) {
	committed, err := h.Finalizer.Resolver.Store.ListBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	mine := make(map[model.SeatPosition]bool, len(committed))
	for _, t := range committed {
		if t.OrderID != nil && *t.OrderID == orderID {
			mine[t.Position()] = true
		}
	}
	for _, s := range seats {
		if !mine[s] {
			return false, nil
		}
	}
	return true, nil
}

func sameSeats(a, b []model.SeatPosition) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[model.SeatPosition]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
