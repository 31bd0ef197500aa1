package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/coupon"
	"github.com/ecostore/backend/internal/domain/loyalty"
)

// Address holds the shipping address fields. All are required; they are
// concatenated into a single stored string.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
}

func (a Address) complete() bool {
	return a.StreetAddress != "" && a.City != "" && a.State != "" && a.ZipCode != ""
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s - %s", a.StreetAddress, a.City, a.State, a.ZipCode)
}

// ItemRequest is one requested (product, quantity) pair.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateRequest holds the input for placing an order.
type CreateRequest struct {
	ShippingAddress Address       `json:"shippingAddress"`
	Items           []ItemRequest `json:"orderItems"`
	PaymentMethod   string        `json:"paymentMethod"`
	CouponCode      string        `json:"couponCode,omitempty"`

	// Provider fields, required for online payment only.
	ProviderOrderID string `json:"razorpayOrderId,omitempty"`
	PaymentID       string `json:"paymentId,omitempty"`
	Signature       string `json:"razorpaySignature,omitempty"`
}

// Service implements the order workflow.
type Service struct {
	orders   Repository
	products catalog.Repository
	coupons  coupon.Repository
	verifier SignatureVerifier
	accruer  Accruer
	lg       *zap.Logger
	now      func() time.Time
}

// NewService creates an order Service with the required collaborators.
func NewService(
	orders Repository,
	products catalog.Repository,
	coupons coupon.Repository,
	verifier SignatureVerifier,
	accruer Accruer,
	lg *zap.Logger,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		coupons:  coupons,
		verifier: verifier,
		accruer:  accruer,
		lg:       lg,
		now:      time.Now,
	}
}

// Create validates payment, prices the requested lines from the catalog with
// a unit-price snapshot, applies an optional coupon, persists the order with
// status PLACED, and finally attempts the best-effort EcoCoin accrual when the
// payment completed. Every failure before persistence aborts the whole
// operation; no partial order is ever stored.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !req.ShippingAddress.complete() {
		return nil, ErrIncompleteAddress
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		OrderDate:       s.now(),
		ShippingAddress: req.ShippingAddress.String(),
		Status:          StatusPlaced,
		ShippingCost:    ShippingCost,
	}

	switch PaymentMethod(strings.ToUpper(req.PaymentMethod)) {
	case PaymentCOD:
		o.PaymentMethod = PaymentCOD
		o.PaymentStatus = PaymentPending
	case PaymentRazorpay:
		if req.ProviderOrderID == "" || req.PaymentID == "" || req.Signature == "" {
			return nil, ErrMissingPaymentDetails
		}
		if !s.verifier.Verify(req.ProviderOrderID, req.PaymentID, req.Signature) {
			return nil, ErrSignatureInvalid
		}
		o.PaymentMethod = PaymentRazorpay
		o.PaymentStatus = PaymentCompleted
		o.PaymentID = req.PaymentID
		o.ProviderOrderID = req.ProviderOrderID
	default:
		return nil, &UnsupportedPaymentMethodError{Method: req.PaymentMethod}
	}

	subtotal := decimal.Zero
	lines := make([]Line, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}

		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: item.ProductID}
			}
			return nil, errors.Wrap(err, "get product")
		}

		linePrice := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, Line{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
			Price:     linePrice,
		})
		subtotal = subtotal.Add(linePrice)
	}
	o.Lines = lines
	o.Subtotal = subtotal

	discount := decimal.Zero
	if req.CouponCode != "" {
		c, err := s.coupons.FindByCode(ctx, req.CouponCode)
		if err != nil {
			return nil, err
		}
		if c.ExpiredAt(s.now()) {
			return nil, ErrCouponExpired
		}
		if !c.Active {
			return nil, ErrCouponInactive
		}
		discount = c.Discount(subtotal)
		o.CouponCode = c.Code
	}
	o.Discount = discount
	o.FinalPrice = subtotal.Sub(discount).Add(o.ShippingCost)

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if o.PaymentStatus == PaymentCompleted {
		s.accrueEcoCoins(ctx, o)
	}

	return o, nil
}

// accrueEcoCoins credits floor(finalPrice/10) EcoCoins. The order has already
// committed, so a failure here is logged and swallowed; it must never affect
// the order outcome.
func (s *Service) accrueEcoCoins(ctx context.Context, o *Order) {
	earned := loyalty.EarnedFromSpend(o.FinalPrice)
	if earned <= 0 {
		return
	}
	if _, err := s.accruer.Credit(ctx, o.UserID, earned); err != nil {
		s.lg.Warn("EcoCoin accrual failed",
			zap.String("order_id", o.ID),
			zap.Int64("user_id", o.UserID),
			zap.Int("points", earned),
			zap.Error(err),
		)
	}
}

// Get returns a single order by id.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// HistoryForUser returns the user's orders, newest first.
func (s *Service) HistoryForUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order. Administrative.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus overwrites the order status. Entering DELIVERED also stamps
// the delivery date and forces payment status COMPLETED regardless of its
// prior value; that is a policy decision carried over from the original flow.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	switch status {
	case StatusPlaced, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
	default:
		return nil, ErrUnknownStatus
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.Status = status
	if status == StatusDelivered {
		now := s.now()
		o.DeliveryDate = &now
		o.PaymentStatus = PaymentCompleted
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// MarkCodAsPaid completes payment on a cash-on-delivery order and performs
// the same best-effort EcoCoin accrual as order creation. It fails when the
// order was not COD or is already paid.
func (s *Service) MarkCodAsPaid(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != PaymentCOD {
		return nil, ErrNotCashOnDelivery
	}
	if o.PaymentStatus == PaymentCompleted {
		return nil, ErrAlreadyPaid
	}

	o.PaymentStatus = PaymentCompleted
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	s.accrueEcoCoins(ctx, o)
	return o, nil
}

// UpdatePayment unconditionally overwrites the payment method and provider
// reference and forces payment status COMPLETED. Administrative.
func (s *Service) UpdatePayment(ctx context.Context, orderID string, method PaymentMethod, paymentID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.PaymentMethod = method
	o.PaymentID = paymentID
	o.PaymentStatus = PaymentCompleted

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// Delete hard-deletes the order and its lines. EcoCoins already credited for
// the order are intentionally not reversed.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	return s.orders.Delete(ctx, orderID)
}
