package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func TestParseSuccessParams(t *testing.T) {
	q := url.Values{
		"orderId":   {"order_1_2"},
		"sessionId": {"5"},
		"seats":     {`[{"row":1,"col":2}]`},
	}

	p, err := ParseSuccessParams(q)

	require.NoError(t, err)
	assert.Equal(t, []model.SeatPosition{{Row: 1, Col: 2}}, p.Seats)
	assert.Equal(t, "", p.Amount)
	assert.Equal(t, "", p.Description)
}

func TestParseSuccessParams_DoubleEncodedSeats(t *testing.T) {
	// The result URL of older payloads escaped the seat JSON before
	// adding it to the query string.
	q := url.Values{
		"orderId":   {"o"},
		"sessionId": {"5"},
		"seats":     {url.QueryEscape(`[{"row":3,"col":4}]`)},
		"amount":    {"240"},
	}

	p, err := ParseSuccessParams(q)

	require.NoError(t, err)
	assert.Equal(t, []model.SeatPosition{{Row: 3, Col: 4}}, p.Seats)
	assert.Equal(t, "240", p.Amount)
}

func TestParseSuccessParams_Errors(t *testing.T) {
	tests := map[string]url.Values{
		"missing order":  {"sessionId": {"1"}, "seats": {"[]"}},
		"missing seats":  {"orderId": {"o"}, "sessionId": {"1"}},
		"bad session":    {"orderId": {"o"}, "sessionId": {"x"}, "seats": {"[]"}},
		"bad seats json": {"orderId": {"o"}, "sessionId": {"1"}, "seats": {"[{"}},
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuccessParams(q)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestParseCheckoutParams(t *testing.T) {
	ok := url.Values{
		"sessionId":   {"3"},
		"seats":       {`[{"row":1,"col":1}]`},
		"amount":      {"150"},
		"description": {"Ticket"},
	}
	p, err := ParseCheckoutParams(ok)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.SessionID)
	assert.Equal(t, 150.0, p.Amount)

	bad := map[string]func(url.Values){
		"no description":  func(q url.Values) { q.Del("description") },
		"zero session":    func(q url.Values) { q.Set("sessionId", "0") },
		"negative amount": func(q url.Values) { q.Set("amount", "-1") },
		"empty seats":     func(q url.Values) { q.Set("seats", "[]") },
		"garbage seats":   func(q url.Values) { q.Set("seats", "nope") },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			q := url.Values{}
			for k, v := range ok {
				q[k] = append([]string(nil), v...)
			}
			mutate(q)
			_, err := ParseCheckoutParams(q)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}
