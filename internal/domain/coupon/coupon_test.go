package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExpiredAt_DayGranularity(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{"yesterday", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), true},
		{"today midnight", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"today earlier hour", time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Coupon{ExpiryDate: tt.expiry}
			assert.Equal(t, tt.expired, c.ExpiredAt(now))
		})
	}
}

func TestDiscount_Fixed(t *testing.T) {
	c := &Coupon{Type: TypeFixed, Value: dec("100")}
	assert.True(t, c.Discount(dec("500.00")).Equal(dec("100.00")))
}

func TestDiscount_FixedClampedToSubtotal(t *testing.T) {
	c := &Coupon{Type: TypeFixed, Value: dec("100")}
	assert.True(t, c.Discount(dec("60.00")).Equal(dec("60.00")))
}

func TestDiscount_Percentage(t *testing.T) {
	c := &Coupon{Type: TypePercentage, Value: dec("18")}
	assert.True(t, c.Discount(dec("550.00")).Equal(dec("99.00")))
}

func TestDiscount_PercentageRounding(t *testing.T) {
	c := &Coupon{Type: TypePercentage, Value: dec("10")}
	// 10% of 33.33 = 3.333, rounds to 3.33.
	assert.True(t, c.Discount(dec("33.33")).Equal(dec("3.33")))
}

func TestDiscount_ZeroSubtotal(t *testing.T) {
	c := &Coupon{Type: TypeFixed, Value: dec("100")}
	assert.True(t, c.Discount(decimal.Zero).IsZero())
}
