package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name    string
		base    int64
		percent int
		want    Discount
	}{
		{"ten percent", 1000, 10, Discount{1000, 100, 900}},
		{"rounds half up", 999, 10, Discount{999, 100, 899}},
		{"rounds down below half", 994, 10, Discount{994, 99, 895}},
		{"exact half", 5, 10, Discount{5, 1, 4}},
		{"no discount", 300, 0, Discount{300, 0, 300}},
		{"twenty percent", 300, 20, Discount{300, 60, 240}},
		{"full", 300, 100, Discount{300, 300, 0}},
		{"clamped above", 300, 150, Discount{300, 300, 0}},
		{"clamped below", 300, -5, Discount{300, 0, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDiscount(tt.base, tt.percent)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.OriginalPrice, got.Discount+got.FinalPrice)
		})
	}
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, int64(300), BasePrice(2, 150))
	assert.Equal(t, int64(0), BasePrice(0, 150))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, Discount{300, 0, 300}, Quote(2, 150, nil))
	assert.Equal(t, Discount{300, 60, 240}, Quote(2, 150, &model.Promocode{Code: "SAVE20", Value: 20}))
}
