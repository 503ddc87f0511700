package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/pricing"
	"github.com/iliyamo/cinema-booking/internal/repository/memory"
	"github.com/iliyamo/cinema-booking/internal/router"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

const secret = "client-secret"

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New(time.Hour)
	store.Seed(time.Now())
	gw, err := payment.NewGateway(payment.Config{PublicKey: "pub", PrivateKey: "priv", Sandbox: true})
	require.NoError(t, err)
	resolver := booking.NewResolver(store, nil, nil)
	promos := pricing.NewValidator(store, nil)

	e := echo.New()
	e.Validator = handler.NewValidator()
	router.RegisterRoutes(e)
	opts := router.Options{JWTSecret: secret}
	v1 := router.API(e, opts)
	router.RegisterCatalog(v1, handler.NewCatalogHandler(store), router.Cache(opts))
	router.RegisterBooking(v1, handler.NewBookingHandler(resolver, store, promos, nil), handler.NewPromocodeHandler(promos, nil))
	router.RegisterPayments(v1, handler.NewPaymentHandler(gw, store, promos, booking.NewFinalizer(resolver), store, nil))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestBookReplaysOccupied(t *testing.T) {
	c := New(newService(t).URL, "")
	ctx := context.Background()
	seats := []model.SeatPosition{{Row: 2, Col: 7}}

	res, err := c.Book(ctx, 1, seats, "")
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, "Tickets created successfully", res.Message)
	require.Len(t, res.Tickets, 1)

	res, err = c.Book(ctx, 1, seats, "")
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Empty(t, res.Tickets)
}

func TestBookErrors(t *testing.T) {
	c := New(newService(t).URL, "")
	_, err := c.Book(context.Background(), 1, nil, "")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, booking.MsgSeatsRequired, ae.Message)
	assert.False(t, IsConflict(err))
}

func TestBookWithToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, "cli-user", time.Minute)
	require.NoError(t, err)
	c := New(newService(t).URL, tok.Token)

	res, err := c.Book(context.Background(), 2, []model.SeatPosition{{Row: 1, Col: 1}}, "")
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	require.NotNil(t, res.Tickets[0].UserID)
	assert.Equal(t, "cli-user", *res.Tickets[0].UserID)

	_, err = New(c.BaseURL, "forged").Book(context.Background(), 2, []model.SeatPosition{{Row: 1, Col: 2}}, "")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
}

func TestSeatsAndQuote(t *testing.T) {
	c := New(newService(t).URL, "")
	ctx := context.Background()
	_, err := c.Book(ctx, 1, []model.SeatPosition{{Row: 1, Col: 1}}, "")
	require.NoError(t, err)

	m, err := c.Seats(ctx, 1, []model.SeatPosition{{Row: 1, Col: 2}})
	require.NoError(t, err)
	assert.Equal(t, 8, m.Hall.Rows)
	assert.Equal(t, model.SeatOccupied, m.Grid[0][0].Status)
	assert.Equal(t, model.SeatSelected, m.Grid[0][1].Status)
	assert.Equal(t, int64(150), m.TotalPrice)

	q, err := c.Quote(ctx, 1, []model.SeatPosition{{Row: 4, Col: 1}, {Row: 4, Col: 2}}, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, int64(300), q.OriginalPrice)
	assert.Equal(t, int64(240), q.FinalPrice)
	require.NotNil(t, q.Promocode)
	assert.True(t, q.Promocode.Valid)

	_, err = c.Seats(ctx, 42, nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Session not found", ae.Message)
}

func TestPay(t *testing.T) {
	c := New(newService(t).URL, "")
	p, err := c.Pay(context.Background(), 1, []model.SeatPosition{{Row: 8, Col: 12}}, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(150), p.Amount)
	assert.NotEmpty(t, p.Signature)
	assert.Equal(t, payment.DefaultCheckoutURL, p.CheckoutURL)
}
