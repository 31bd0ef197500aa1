// Package coupon holds named discount rules: fixed-amount or percentage
// coupons with an expiry date and an active flag.
package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount strategies.
type Type string

const (
	// TypeFixed subtracts a flat amount from the subtotal.
	TypeFixed Type = "FIXED"
	// TypePercentage subtracts value% of the subtotal.
	TypePercentage Type = "PERCENTAGE"
)

// ErrNotFound is returned when no coupon exists for the requested code.
var ErrNotFound = errors.New("coupon not found")

var hundred = decimal.NewFromInt(100)

// Coupon is a discount rule looked up by its unique code. Expiry and active
// checks are the order workflow's responsibility; the store is a plain keyed
// lookup.
type Coupon struct {
	Code       string          `json:"code"`
	Type       Type            `json:"discountType"`
	Value      decimal.Decimal `json:"value"`
	ExpiryDate time.Time       `json:"expiryDate"`
	Active     bool            `json:"active"`
}

// Repository defines persistence operations for coupons. Code is unique.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
}

// ExpiredAt reports whether the coupon's expiry date lies strictly before the
// calendar day of now. A coupon expiring today is still valid.
func (c *Coupon) ExpiredAt(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return c.ExpiryDate.Before(today)
}

// Discount computes the rounded discount for the given subtotal, clamped so
// it never exceeds the subtotal.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch c.Type {
	case TypePercentage:
		amount = subtotal.Mul(c.Value).Div(hundred)
	default:
		amount = c.Value
	}
	amount = amount.Round(2)
	return decimal.Min(amount, subtotal)
}
