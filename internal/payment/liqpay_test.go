package payment

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := NewGateway(Config{
		PublicKey:  "sandbox_pub",
		PrivateKey: "sandbox_priv",
		Sandbox:    true,
		BaseURL:    "https://cinema.example/",
	})
	require.NoError(t, err)
	return g
}

func TestNewGateway_RequiresKeys(t *testing.T) {
	_, err := NewGateway(Config{PublicKey: "pub"})
	assert.Error(t, err)
}

func TestNewOrderID(t *testing.T) {
	g := newTestGateway(t)
	g.now = func() time.Time { return time.UnixMilli(1700000000123) }
	g.rand = func(int) int { return 4242 }

	assert.Equal(t, "order_1700000000123_4242", g.NewOrderID())

	g = newTestGateway(t)
	assert.Regexp(t, regexp.MustCompile(`^order_\d+_\d{1,5}$`), g.NewOrderID())
}

func TestSign_MatchesLiqPayScheme(t *testing.T) {
	g := newTestGateway(t)
	sum := sha1.Sum([]byte("sandbox_priv" + "abc" + "sandbox_priv"))

	assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), g.Sign("abc"))
}

func TestCreatePayload(t *testing.T) {
	g := newTestGateway(t)
	seats := []model.SeatPosition{{Row: 3, Col: 4}, {Row: 3, Col: 5}}

	p, err := g.CreatePayload(Params{Amount: 240, Description: "2 tickets", OrderID: "order_1_2", SessionID: 7, Seats: seats})
	require.NoError(t, err)

	assert.Equal(t, "order_1_2", p.OrderID)
	assert.Equal(t, DefaultCheckoutURL, p.CheckoutURL)
	assert.True(t, g.Verify(p.Data, p.Signature))

	raw, err := base64.StdEncoding.DecodeString(p.Data)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sandbox_priv")
	assert.True(t, strings.HasPrefix(string(raw), `{"public_key":"sandbox_pub","version":"3","action":"pay","amount":"240"`))

	var d checkoutData
	require.NoError(t, json.Unmarshal(raw, &d))
	assert.Equal(t, "UAH", d.Currency)
	assert.Equal(t, "1", d.Sandbox)
	assert.Equal(t, "https://cinema.example/v1/payments/callback", d.ServerURL)

	u, err := url.Parse(d.ResultURL)
	require.NoError(t, err)
	assert.Equal(t, "/v1/payments/success", u.Path)
	sp, err := ParseSuccessParams(u.Query())
	require.NoError(t, err)
	assert.Equal(t, "order_1_2", sp.OrderID)
	assert.Equal(t, uint64(7), sp.SessionID)
	assert.Equal(t, seats, sp.Seats)
}

func TestCreatePayload_Invalid(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.CreatePayload(Params{Amount: 0, Description: "x", OrderID: "o", SessionID: 1, Seats: []model.SeatPosition{{Row: 1, Col: 1}}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = g.CreatePayload(Params{Amount: 10, Description: "x", OrderID: "o", SessionID: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestVerify_RejectsAlteredData(t *testing.T) {
	g := newTestGateway(t)
	p, err := g.CreatePayload(Params{Amount: 300, Description: "d", OrderID: "o", SessionID: 1, Seats: []model.SeatPosition{{Row: 1, Col: 1}}})
	require.NoError(t, err)

	assert.True(t, g.Verify(p.Data, p.Signature))
	assert.True(t, g.Verify(p.Data, p.Signature), "resubmission of the same pair is accepted")

	for i := range p.Data {
		b := []byte(p.Data)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		assert.False(t, g.Verify(string(b), p.Signature), "byte %d altered", i)
	}
	assert.False(t, g.Verify(p.Data+"=", p.Signature))
	assert.False(t, g.Verify(p.Data, ""))

	other, err := NewGateway(Config{PublicKey: "sandbox_pub", PrivateKey: "other"})
	require.NoError(t, err)
	assert.False(t, other.Verify(p.Data, p.Signature))
}

func TestVerifyAndDecode(t *testing.T) {
	g := newTestGateway(t)
	data := base64.StdEncoding.EncodeToString([]byte(`{"status":"sandbox","order_id":"order_9","amount":240,"payment_id":123456}`))

	cb, err := g.VerifyAndDecode(data, g.Sign(data))
	require.NoError(t, err)
	assert.Equal(t, "sandbox", cb.Status)
	assert.Equal(t, "order_9", cb.OrderID)
	assert.Equal(t, "240", cb.Amount.String())
	assert.Equal(t, model.ID("123456"), cb.PaymentID)

	_, err = g.VerifyAndDecode(data, "bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	junk := base64.StdEncoding.EncodeToString([]byte("not json"))
	_, err = g.VerifyAndDecode(junk, g.Sign(junk))
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = g.Decode("%%%")
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDecode_OwnPayloadAmountIsString(t *testing.T) {
	g := newTestGateway(t)
	p, err := g.CreatePayload(Params{Amount: 240, Description: "d", OrderID: "o", SessionID: 1, Seats: []model.SeatPosition{{Row: 1, Col: 1}}})
	require.NoError(t, err)

	cb, err := g.Decode(p.Data)

	require.NoError(t, err)
	assert.Equal(t, "240", cb.Amount.String())
	assert.Equal(t, "o", cb.OrderID)
}

func TestIsSuccessful(t *testing.T) {
	assert.True(t, IsSuccessful("success"))
	assert.True(t, IsSuccessful("sandbox"))
	for _, s := range []string{"failure", "error", "wait_secure", "processing", ""} {
		assert.False(t, IsSuccessful(s), s)
	}
}
