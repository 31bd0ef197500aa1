package loyalty

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ecostore/backend/internal/domain/coupon"
)

// Redemption tiers. 200+ points buy a ₹150 coupon, 100+ points a ₹50 coupon.
const (
	minRedeemPoints = 100
	tier150Points   = 200

	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSuffix  = 6
)

var (
	ten = decimal.NewFromInt(10)

	tier50Value  = decimal.NewFromInt(50)
	tier150Value = decimal.NewFromInt(150)
)

// EarnedFromSpend converts a completed spend amount into EcoCoins: one coin
// per ₹10, rounded down. Non-positive amounts earn nothing.
func EarnedFromSpend(amount decimal.Decimal) int {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(amount.Div(ten).Floor().IntPart())
}

// Service implements ledger operations and coupon redemption.
type Service struct {
	balances BalanceRepository
	coupons  coupon.Repository
	now      func() time.Time
	randInt  func(n int) int
}

// NewService creates a loyalty Service.
func NewService(balances BalanceRepository, coupons coupon.Repository) *Service {
	return &Service{
		balances: balances,
		coupons:  coupons,
		now:      time.Now,
		randInt:  rand.IntN,
	}
}

// Balance returns the user's current EcoCoin balance.
func (s *Service) Balance(ctx context.Context, userID int64) (int, error) {
	return s.balances.Balance(ctx, userID)
}

// Credit adds amount to the user's balance and returns the new balance.
func (s *Service) Credit(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	current, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "read balance")
	}

	next := current + amount
	if err := s.balances.SetBalance(ctx, userID, next); err != nil {
		return 0, errors.Wrap(err, "write balance")
	}
	return next, nil
}

// Debit removes amount from the user's balance and returns the new balance.
// It fails with InsufficientBalanceError when the balance cannot cover the
// amount, leaving the balance unchanged.
func (s *Service) Debit(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	current, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "read balance")
	}
	if current < amount {
		return 0, &InsufficientBalanceError{Current: current, Required: amount}
	}

	next := current - amount
	if err := s.balances.SetBalance(ctx, userID, next); err != nil {
		return 0, errors.Wrap(err, "write balance")
	}
	return next, nil
}

// RedeemForCoupon exchanges EcoCoins for a fixed-amount coupon. 200+ points
// buy a ₹150 coupon, 100+ a ₹50 coupon; anything less fails with
// InsufficientPointsError. The tier is resolved before the ledger is debited
// so a failed redemption never costs points. The generated code is retried
// until unique and the coupon is stored active with a six month expiry.
func (s *Service) RedeemForCoupon(ctx context.Context, userID int64, points int) (string, error) {
	if points <= 0 {
		return "", ErrInvalidAmount
	}

	var (
		prefix string
		value  decimal.Decimal
	)
	switch {
	case points >= tier150Points:
		prefix, value = "ECO150", tier150Value
	case points >= minRedeemPoints:
		prefix, value = "ECO50", tier50Value
	default:
		return "", &InsufficientPointsError{Points: points, Minimum: minRedeemPoints}
	}

	if _, err := s.Debit(ctx, userID, points); err != nil {
		return "", err
	}

	code, err := s.uniqueCode(ctx, prefix)
	if err != nil {
		return "", err
	}

	c := &coupon.Coupon{
		Code:       code,
		Type:       coupon.TypeFixed,
		Value:      value,
		ExpiryDate: s.now().AddDate(0, 6, 0),
		Active:     true,
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		return "", errors.Wrap(err, "store coupon")
	}
	return code, nil
}

// uniqueCode generates PREFIX-XXXXXX codes until one is not already taken.
func (s *Service) uniqueCode(ctx context.Context, prefix string) (string, error) {
	for {
		code := s.generateCode(prefix)

		_, err := s.coupons.FindByCode(ctx, code)
		switch {
		case errors.Is(err, coupon.ErrNotFound):
			return code, nil
		case err != nil:
			return "", errors.Wrap(err, "check coupon code")
		}
	}
}

func (s *Service) generateCode(prefix string) string {
	buf := make([]byte, 0, len(prefix)+1+codeSuffix)
	buf = append(buf, prefix...)
	buf = append(buf, '-')
	for range codeSuffix {
		buf = append(buf, codeCharset[s.randInt(len(codeCharset))])
	}
	return string(buf)
}
