package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

type quoteBody struct {
	Count         int      `json:"count"`
	Labels        []string `json:"labels"`
	OriginalPrice int64    `json:"originalPrice"`
	Discount      int64    `json:"discount"`
	FinalPrice    int64    `json:"finalPrice"`
}

type successBody struct {
	Message  string         `json:"message"`
	OrderID  string         `json:"orderId"`
	Tickets  []model.Ticket `json:"tickets"`
	Replayed bool           `json:"replayed"`
}

func payloadFields(t *testing.T, data string) map[string]any {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	return fields
}

func (s *server) generate(t *testing.T, body string) payment.Payload {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/payments/generate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[payment.Payload](t, rec)
}

func TestCheckoutFlow(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	seats := `[{"row":3,"col":4},{"row":3,"col":5}]`

	rec := s.do(t, http.MethodPost, "/v1/sessions/1/quote", `{"seats":`+seats+`,"promocode":"SAVE20"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[quoteBody](t, rec)
	assert.Equal(t, 2, q.Count)
	assert.Equal(t, []string{"C4", "C5"}, q.Labels)
	assert.Equal(t, int64(300), q.OriginalPrice)
	assert.Equal(t, int64(60), q.Discount)
	assert.Equal(t, int64(240), q.FinalPrice)

	p := s.generate(t, `{"sessionId":1,"seats":`+seats+`,"promocode":"SAVE20","amount":240}`)
	assert.Equal(t, int64(240), p.Amount)
	assert.Equal(t, s.gw.Sign(p.Data), p.Signature)
	fields := payloadFields(t, p.Data)
	assert.Equal(t, "240", fields["amount"])
	assert.Equal(t, "1", fields["sandbox"])
	assert.Equal(t, p.OrderID, fields["order_id"])
	assert.Equal(t, "Cinema tickets: session 1, seats C4, C5", fields["description"])
	assert.NotContains(t, fields, "private_key")

	order, err := s.store.GetOrder(ctx, p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(240), order.Amount)

	data := callbackData(t, map[string]any{"status": "sandbox", "order_id": p.OrderID, "amount": 240, "currency": "UAH"})
	rec = s.callback(t, data, s.gw.Sign(data))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","order_id":"`+p.OrderID+`"}`, rec.Body.String())

	committed, err := s.store.ListBySession(ctx, 1)
	require.NoError(t, err)
	require.Len(t, committed, 2)
	assert.Equal(t, model.SeatPosition{Row: 3, Col: 4}, committed[0].Position())
	assert.Equal(t, model.SeatPosition{Row: 3, Col: 5}, committed[1].Position())
	require.NotNil(t, committed[0].OrderID)
	assert.Equal(t, p.OrderID, *committed[0].OrderID)

	_, err = s.store.GetOrder(ctx, p.OrderID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// the gateway may deliver the same notification again
	rec = s.callback(t, data, s.gw.Sign(data))
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := url.Parse(fields["result_url"].(string))
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, u.RequestURI(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[successBody](t, rec)
	assert.True(t, got.Replayed)
	assert.Equal(t, "Tickets already issued", got.Message)
	assert.Len(t, got.Tickets, 2)

	committed, err = s.store.ListBySession(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, committed, 2)
}

func TestSuccessWithoutCallback(t *testing.T) {
	s := newServer(t)
	p := s.generate(t, `{"sessionId":2,"seats":[{"row":1,"col":1}]}`)
	u, err := url.Parse(payloadFields(t, p.Data)["result_url"].(string))
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, u.RequestURI(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[successBody](t, rec)
	assert.False(t, got.Replayed)
	assert.Equal(t, "Tickets created successfully", got.Message)
	assert.Equal(t, p.OrderID, got.OrderID)
	require.Len(t, got.Tickets, 1)

	rec = s.do(t, http.MethodGet, u.RequestURI(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[successBody](t, rec).Replayed)
}

func TestSuccessRejects(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/v1/payments/success?orderId=x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "orderId, sessionId and seats are required", decode[messageBody](t, rec).Message)

	p := s.generate(t, `{"sessionId":1,"seats":[{"row":5,"col":5}]}`)
	q := url.Values{}
	q.Set("orderId", p.OrderID)
	q.Set("sessionId", "1")
	q.Set("seats", `[{"row":5,"col":6}]`)
	rec = s.do(t, http.MethodGet, "/v1/payments/success?"+q.Encode(), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgOrderMismatch, decode[messageBody](t, rec).Message)

	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/v1/tickets", `{"sessionId":1,"seats":[{"row":5,"col":5}],"userId":"someone-else"}`).Code)
	q.Set("seats", `[{"row":5,"col":5}]`)
	rec = s.do(t, http.MethodGet, "/v1/payments/success?"+q.Encode(), "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Seat at row 5, col 5 is already occupied.", decode[messageBody](t, rec).Message)
}

func TestSuccessUnknownOrder(t *testing.T) {
	s := newServer(t)
	q := url.Values{}
	q.Set("orderId", "order_1700000000000_42")
	q.Set("sessionId", "1")
	q.Set("seats", `[{"row":6,"col":6}]`)

	rec := s.do(t, http.MethodGet, "/v1/payments/success?"+q.Encode(), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgUnknownOrder, decode[messageBody](t, rec).Message)
	committed, err := s.store.ListBySession(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, committed)
}

func TestSuccessSeatBookedDirectly(t *testing.T) {
	s := newServer(t)
	p := s.generate(t, `{"sessionId":1,"seats":[{"row":3,"col":5}]}`)
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/v1/tickets", `{"sessionId":1,"seats":[{"row":3,"col":5}]}`).Code)

	u, err := url.Parse(payloadFields(t, p.Data)["result_url"].(string))
	require.NoError(t, err)
	rec := s.do(t, http.MethodGet, u.RequestURI(), "")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "Seat at row 3, col 5 is already occupied.", decode[messageBody](t, rec).Message)
}

func TestCallbackRejects(t *testing.T) {
	s := newServer(t)
	data := callbackData(t, map[string]any{"status": "success", "order_id": "order_1_1", "amount": 150})
	sig := s.gw.Sign(data)

	rec := s.callback(t, data, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing payment data or signature", decode[messageBody](t, rec).Message)

	tampered := callbackData(t, map[string]any{"status": "success", "order_id": "order_1_1", "amount": 1})
	rec = s.callback(t, tampered, sig)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid signature", decode[messageBody](t, rec).Message)

	garbage := "not base64 at all"
	rec = s.callback(t, garbage, s.gw.Sign(garbage))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payment data format", decode[messageBody](t, rec).Message)

	failed := callbackData(t, map[string]any{"status": "failure", "order_id": "order_1_1", "err_code": "limit"})
	rec = s.callback(t, failed, s.gw.Sign(failed))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"failed","order_id":"order_1_1"}`, rec.Body.String())

	rec = s.callback(t, data, sig)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","order_id":"order_1_1"}`, rec.Body.String())
}

func TestCallbackAmountMismatch(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	p := s.generate(t, `{"sessionId":1,"seats":[{"row":6,"col":1}]}`)

	data := callbackData(t, map[string]any{"status": "success", "order_id": p.OrderID, "amount": "100.00"})
	rec := s.callback(t, data, s.gw.Sign(data))
	require.Equal(t, http.StatusOK, rec.Code)

	committed, err := s.store.ListBySession(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, committed)
	_, err = s.store.GetOrder(ctx, p.OrderID)
	assert.NoError(t, err, "unreconciled order stays pending")
}

func TestGenerateRejects(t *testing.T) {
	s := newServer(t)
	cases := []struct {
		name, body string
		code       int
		want       string
	}{
		{"amount mismatch", `{"sessionId":1,"seats":[{"row":1,"col":1}],"amount":100}`, http.StatusBadRequest, msgAmountMismatch},
		{"unknown promocode", `{"sessionId":1,"seats":[{"row":1,"col":1}],"promocode":"NOPE"}`, http.StatusBadRequest, "Promo code not found"},
		{"no seats", `{"sessionId":1,"seats":[]}`, http.StatusBadRequest, msgInvalidPayment},
		{"bad seat", `{"sessionId":1,"seats":[{"row":0,"col":1}]}`, http.StatusBadRequest, msgInvalidPayment},
		{"unknown session", `{"sessionId":99,"seats":[{"row":1,"col":1}]}`, http.StatusNotFound, "Session not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/v1/payments/generate", tc.body)
			require.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.want, decode[messageBody](t, rec).Message)
		})
	}
}
