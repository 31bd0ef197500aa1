// Package loyalty implements the EcoCoin ledger: an integer balance per user,
// earned on completed spend and redeemable for discount coupons.
package loyalty

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalidAmount is returned when a credit or debit amount is not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// InsufficientBalanceError reports a debit that exceeds the current balance.
// The balance is unchanged after the failed call.
type InsufficientBalanceError struct {
	Current  int
	Required int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient EcoCoin balance: current %d, required %d", e.Current, e.Required)
}

// InsufficientPointsError reports a redemption below the minimum coupon tier.
type InsufficientPointsError struct {
	Points  int
	Minimum int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient EcoCoins for coupon generation: %d redeemed, minimum %d required", e.Points, e.Minimum)
}

// BalanceRepository provides the single-row read-modify-write over a user's
// EcoCoin balance. The balance lives on the user record; this is the only
// path that mutates it.
type BalanceRepository interface {
	Balance(ctx context.Context, userID int64) (int, error)
	SetBalance(ctx context.Context, userID int64, balance int) error
}
