// Package pricing computes ticket totals and promocode discounts.  Amounts
// are whole hryvnias.  Nothing here is cached: a quote is recomputed from
// the seat count, the unit price and the promocode every time it is asked
// for.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-booking/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Discount is the price breakdown shown before checkout.
type Discount struct {
	OriginalPrice int64 `json:"originalPrice"`
	Discount      int64 `json:"discount"`
	FinalPrice    int64 `json:"finalPrice"`
}

// BasePrice is the undiscounted total for count seats at unit each.
func BasePrice(count int, unit int64) int64 {
	if count <= 0 || unit <= 0 {
		return 0
	}
	return int64(count) * unit
}

// ApplyDiscount takes percent off base, rounding the discount half up to a
// whole unit.  Percent outside 0..100 is clamped.
func ApplyDiscount(base int64, percent int) Discount {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	off := decimal.NewFromInt(base).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(hundred).
		Round(0)
	d := off.IntPart()
	return Discount{OriginalPrice: base, Discount: d, FinalPrice: base - d}
}

// Quote prices count seats at unit each with an optional promocode.  The
// caller is expected to pass only a promocode that validated; a nil code
// means no discount.
func Quote(count int, unit int64, code *model.Promocode) Discount {
	base := BasePrice(count, unit)
	if code == nil {
		return ApplyDiscount(base, 0)
	}
	return ApplyDiscount(base, code.Value)
}
