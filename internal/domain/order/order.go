// Package order implements the order workflow: pricing, coupon application,
// payment handling and persistence of customer orders.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates order lifecycle states. Transitions are direct overwrites
// by administrative operations; no transition validity is enforced.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentMethod enumerates supported payment methods.
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "COD"
	PaymentRazorpay PaymentMethod = "RAZORPAY"
)

// PaymentStatus enumerates payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// ShippingCost is the flat shipping charge added to every order.
var ShippingCost = decimal.RequireFromString("49.00")

// Sentinel errors for order validation.
var (
	ErrNotFound              = errors.New("order not found")
	ErrEmptyItems            = errors.New("order items required")
	ErrIncompleteAddress     = errors.New("all shipping address fields are required")
	ErrMissingPaymentDetails = errors.New("payment details are missing")
	ErrSignatureInvalid      = errors.New("payment verification failed: invalid signature")
	ErrCouponExpired         = errors.New("coupon code has expired")
	ErrCouponInactive        = errors.New("coupon code is not active")
	ErrNotCashOnDelivery     = errors.New("order was not placed as cash on delivery")
	ErrAlreadyPaid           = errors.New("payment has already been marked as completed")
	ErrUnknownStatus         = errors.New("unknown order status")
)

// UnsupportedPaymentMethodError reports a payment method that is neither COD
// nor the online method.
type UnsupportedPaymentMethodError struct {
	Method string
}

func (e *UnsupportedPaymentMethodError) Error() string {
	return fmt.Sprintf("unsupported payment method: %q", e.Method)
}

// ProductNotFoundError indicates a requested line references an unknown
// product. The whole order fails; nothing partial is persisted.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// Line is one order line with its price snapshot: UnitPrice is captured at
// order creation and never recalculated, even if the catalog price changes.
type Line struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a persisted customer order with its computed pricing fields.
// Invariant: Discount never exceeds Subtotal, and
// FinalPrice = Subtotal - Discount + ShippingCost.
type Order struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"userId"`
	OrderDate       time.Time       `json:"orderDate"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
	ShippingAddress string          `json:"shippingAddress"`
	Lines           []Line          `json:"orderItems"`
	Subtotal        decimal.Decimal `json:"totalPrice"`
	Discount        decimal.Decimal `json:"discount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	Status          Status          `json:"orderStatus"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentID       string          `json:"paymentId,omitempty"`
	ProviderOrderID string          `json:"razorpayOrderId,omitempty"`
	CouponCode      string          `json:"couponCode,omitempty"`
}

// Repository defines persistence operations for orders. Create stores the
// order and its lines atomically; Delete cascades to the lines.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// SignatureVerifier checks a payment provider signature against the provider
// order id and payment id. Implemented by the Razorpay adapter.
type SignatureVerifier interface {
	Verify(providerOrderID, paymentID, signature string) bool
}

// Accruer credits earned EcoCoins. Implemented by the loyalty service.
type Accruer interface {
	Credit(ctx context.Context, userID int64, amount int) (int, error)
}
