package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// Validation messages returned to the customer.
const (
	MsgNotFound     = "Promo code not found"
	MsgExpired      = "Promocode expired"
	MsgNotYetActive = "Promocode is not active yet"
)

// Result is the outcome of checking a promocode.  Promocode is nil only
// when no record matched the code.
type Result struct {
	Valid     bool             `json:"valid"`
	Promocode *model.Promocode `json:"promocode,omitempty"`
	Message   string           `json:"message"`
}

// NormalizeCode trims surrounding whitespace and upper-cases the code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate decides whether p can be applied at now.  An inactive code is
// reported as expired whatever its dates say; the date window is checked
// only for active codes.
func Evaluate(p model.Promocode, now time.Time) Result {
	switch {
	case !p.IsActive:
		return Result{Promocode: &p, Message: MsgExpired}
	case now.Before(p.StartsAt):
		return Result{Promocode: &p, Message: MsgNotYetActive}
	case now.After(p.ExpiresAt):
		return Result{Promocode: &p, Message: MsgExpired}
	}
	return Result{Valid: true, Promocode: &p, Message: fmt.Sprintf("Promocode applied, discount %d%%", p.Value)}
}

// PromocodeFinder looks a promocode up by its normalized code and returns
// repository.ErrNotFound when there is none.
type PromocodeFinder interface {
	FindByCode(ctx context.Context, code string) (*model.Promocode, error)
}

// Validator checks promocodes against the store.
type Validator struct {
	Finder PromocodeFinder
	Now    func() time.Time
	Log    *zap.Logger
}

// NewValidator returns a Validator using the wall clock.
func NewValidator(f PromocodeFinder, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{Finder: f, Now: time.Now, Log: log}
}

// Validate normalizes code, looks it up and evaluates it.  A missing code
// or record is a normal invalid result, not an error; errors are reserved
// for lookup failures.
func (v *Validator) Validate(ctx context.Context, code string) (Result, error) {
	code = NormalizeCode(code)
	if code == "" {
		return Result{Message: MsgNotFound}, nil
	}
	p, err := v.Finder.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return Result{Message: MsgNotFound}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("lookup promocode: %w", err)
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	res := Evaluate(*p, now())
	v.logger().Debug("promocode evaluated",
		zap.String("code", code),
		zap.Bool("valid", res.Valid),
		zap.String("message", res.Message))
	return res, nil
}

func (v *Validator) logger() *zap.Logger {
	if v.Log == nil {
		return zap.NewNop()
	}
	return v.Log
}
