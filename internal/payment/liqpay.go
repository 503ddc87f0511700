// Package payment prepares signed checkout payloads for the LiqPay hosted
// payment page and verifies the callbacks it sends back.
//
// A payload is base64(JSON) in "data" plus signature =
// base64(sha1(private_key + data + private_key)).  The private key only
// ever enters the hash; it never appears inside data.
package payment

import (
	"bytes"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// DefaultCheckoutURL is the LiqPay hosted checkout form endpoint.
const DefaultCheckoutURL = "https://www.liqpay.ua/api/3/checkout"

// CallbackPath and SuccessPath are appended to the public base URL.
const (
	CallbackPath = "/v1/payments/callback"
	SuccessPath  = "/v1/payments/success"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidData      = errors.New("invalid payment data format")
	ErrInvalidParams    = errors.New("invalid payment parameters")
)

// Config holds merchant credentials and payload constants.
type Config struct {
	PublicKey   string
	PrivateKey  string
	Sandbox     bool
	CheckoutURL string
	BaseURL     string // public base URL of this service, no trailing slash
	Version     string
	Action      string
	Currency    string
}

// Gateway builds and checks LiqPay payloads.
type Gateway struct {
	cfg  Config
	now  func() time.Time
	rand func(n int) int
}

// NewGateway fills Config defaults and refuses missing keys.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return nil, errors.New("payment: public and private key are required")
	}
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = DefaultCheckoutURL
	}
	if cfg.Version == "" {
		cfg.Version = "3"
	}
	if cfg.Action == "" {
		cfg.Action = "pay"
	}
	if cfg.Currency == "" {
		cfg.Currency = "UAH"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gateway{cfg: cfg, now: time.Now, rand: rand.Intn}, nil
}

// CheckoutURL is where the client posts data and signature.
func (g *Gateway) CheckoutURL() string { return g.cfg.CheckoutURL }

// NewOrderID returns "order_<epoch millis>_<0..99999>".  Ids are not
// checked for collisions.
func (g *Gateway) NewOrderID() string {
	return fmt.Sprintf("order_%d_%d", g.now().UnixMilli(), g.rand(100000))
}

// Params describe one checkout.
type Params struct {
	Amount      int64
	Description string
	OrderID     string
	SessionID   uint64
	Seats       []model.SeatPosition
}

// Payload is handed to the client, which posts Data and Signature to
// CheckoutURL.
type Payload struct {
	Data        string `json:"data"`
	Signature   string `json:"signature"`
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
	Amount      int64  `json:"amount"`
}

// checkoutData is the JSON encoded into Payload.Data.  Field order is the
// order LiqPay documents.
type checkoutData struct {
	PublicKey   string `json:"public_key"`
	Version     string `json:"version"`
	Action      string `json:"action"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	OrderID     string `json:"order_id"`
	Sandbox     string `json:"sandbox"`
	ResultURL   string `json:"result_url"`
	ServerURL   string `json:"server_url"`
}

// CreatePayload encodes and signs a checkout.
func (g *Gateway) CreatePayload(p Params) (Payload, error) {
	if p.Amount <= 0 || p.OrderID == "" || p.Description == "" || p.SessionID == 0 || len(p.Seats) == 0 {
		return Payload{}, fmt.Errorf("%w: amount, description, order id, session and seats are required", ErrInvalidParams)
	}
	resultURL, err := g.ResultURL(p.OrderID, p.SessionID, p.Seats)
	if err != nil {
		return Payload{}, err
	}
	sandbox := "0"
	if g.cfg.Sandbox {
		sandbox = "1"
	}
	raw, err := marshal(checkoutData{
		PublicKey:   g.cfg.PublicKey,
		Version:     g.cfg.Version,
		Action:      g.cfg.Action,
		Amount:      strconv.FormatInt(p.Amount, 10),
		Currency:    g.cfg.Currency,
		Description: p.Description,
		OrderID:     p.OrderID,
		Sandbox:     sandbox,
		ResultURL:   resultURL,
		ServerURL:   g.cfg.BaseURL + CallbackPath,
	})
	if err != nil {
		return Payload{}, err
	}
	data := base64.StdEncoding.EncodeToString(raw)
	return Payload{
		Data:        data,
		Signature:   g.Sign(data),
		OrderID:     p.OrderID,
		CheckoutURL: g.cfg.CheckoutURL,
		Amount:      p.Amount,
	}, nil
}

// marshal encodes v without HTML escaping so that URLs keep their '&'.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ResultURL is the page the customer returns to after paying.  It carries
// everything needed to finalize the order.
func (g *Gateway) ResultURL(orderID string, sessionID uint64, seats []model.SeatPosition) (string, error) {
	js, err := json.Marshal(seats)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("orderId", orderID)
	q.Set("sessionId", strconv.FormatUint(sessionID, 10))
	q.Set("seats", string(js))
	return g.cfg.BaseURL + SuccessPath + "?" + q.Encode(), nil
}

// Sign returns base64(sha1(private + data + private)).
func (g *Gateway) Sign(data string) string {
	h := sha1.New()
	h.Write([]byte(g.cfg.PrivateKey))
	h.Write([]byte(data))
	h.Write([]byte(g.cfg.PrivateKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Verify reports whether signature matches data.
func (g *Gateway) Verify(data, signature string) bool {
	want := g.Sign(data)
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}

// Callback is the decoded "data" of a gateway notification.  Only the
// fields this service reads are listed.
type Callback struct {
	Status      string          `json:"status"`
	OrderID     string          `json:"order_id"`
	PaymentID   model.ID        `json:"payment_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrCode     string          `json:"err_code,omitempty"`
}

// Decode unpacks callback data.  It does not check the signature.
func (g *Gateway) Decode(data string) (Callback, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	var cb Callback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return Callback{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return cb, nil
}

// VerifyAndDecode checks signature and then decodes data.
func (g *Gateway) VerifyAndDecode(data, signature string) (Callback, error) {
	if !g.Verify(data, signature) {
		return Callback{}, ErrInvalidSignature
	}
	return g.Decode(data)
}

// IsSuccessful reports whether a gateway status means the money was taken.
// Sandbox payments count as successful.
func IsSuccessful(status string) bool {
	return status == "success" || status == "sandbox"
}
