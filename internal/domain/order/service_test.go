package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/coupon"
)

// --- Mock implementations ---

type mockProductRepo struct {
	catalog.Repository
	byID map[string]*catalog.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

type mockCouponRepo struct {
	coupon.Repository
	byCode map[string]*coupon.Coupon
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := m.byCode[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return c, nil
}

type mockOrderRepo struct {
	byID    map[string]*Order
	created *Order
	updated *Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{byID: make(map[string]*Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.created = o
	m.byID[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	m.updated = o
	m.byID[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ int64) ([]Order, error) { return nil, nil }
func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error)            { return nil, nil }

type mockVerifier struct {
	ok bool
}

func (m *mockVerifier) Verify(_, _, _ string) bool { return m.ok }

type mockAccruer struct {
	credited []int
	err      error
}

func (m *mockAccruer) Credit(_ context.Context, _ int64, amount int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.credited = append(m.credited, amount)
	return amount, nil
}

// --- Helpers ---

func newTestProduct(id string, price string) *catalog.Product {
	return &catalog.Product{
		ID:    id,
		Name:  "Product " + id,
		Price: decimal.RequireFromString(price),
	}
}

type fixture struct {
	svc      *Service
	orders   *mockOrderRepo
	coupons  *mockCouponRepo
	verifier *mockVerifier
	accruer  *mockAccruer
}

func newFixture(products ...*catalog.Product) *fixture {
	byID := make(map[string]*catalog.Product)
	for _, p := range products {
		byID[p.ID] = p
	}
	f := &fixture{
		orders:   newMockOrderRepo(),
		coupons:  &mockCouponRepo{byCode: make(map[string]*coupon.Coupon)},
		verifier: &mockVerifier{ok: true},
		accruer:  &mockAccruer{},
	}
	f.svc = NewService(f.orders, &mockProductRepo{byID: byID}, f.coupons, f.verifier, f.accruer, zap.NewNop())
	return f
}

func validAddress() Address {
	return Address{
		StreetAddress: "12 Green Lane",
		City:          "Pune",
		State:         "Maharashtra",
		ZipCode:       "411001",
	}
}

// --- Tests ---

func TestCreate_EmptyItems(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "COD",
	})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCreate_IncompleteAddress(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))

	addr := validAddress()
	addr.ZipCode = ""
	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: addr,
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
	})
	require.ErrorIs(t, err, ErrIncompleteAddress)
}

func TestCreate_AddressConcatenation(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Green Lane, Pune, Maharashtra - 411001", o.ShippingAddress)
}

func TestCreate_CodIsPendingAndEarnsNothing(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "500.00"))

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentCOD, o.PaymentMethod)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Empty(t, f.accruer.credited, "pending payment must not earn EcoCoins")
}

func TestCreate_RazorpayRequiresDetails(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "RAZORPAY",
		ProviderOrderID: "order_123",
	})
	require.ErrorIs(t, err, ErrMissingPaymentDetails)
}

func TestCreate_RazorpayBadSignature(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))
	f.verifier.ok = false

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "RAZORPAY",
		ProviderOrderID: "order_123",
		PaymentID:       "pay_456",
		Signature:       "bad",
	})
	require.ErrorIs(t, err, ErrSignatureInvalid)
	assert.Nil(t, f.orders.created, "nothing may persist on failed verification")
}

func TestCreate_RazorpayCompletedEarnsEcoCoins(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "500.00"))

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 2}},
		PaymentMethod:   "RAZORPAY",
		ProviderOrderID: "order_123",
		PaymentID:       "pay_456",
		Signature:       "sig",
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "pay_456", o.PaymentID)
	assert.Equal(t, "order_123", o.ProviderOrderID)

	// finalPrice = 1000 + 49 shipping = 1049, floor(1049/10) = 104.
	require.Len(t, f.accruer.credited, 1)
	assert.Equal(t, 104, f.accruer.credited[0])
}

func TestCreate_UnsupportedPaymentMethod(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "UPI",
	})

	var upmErr *UnsupportedPaymentMethodError
	require.ErrorAs(t, err, &upmErr)
	assert.Equal(t, "UPI", upmErr.Method)
}

func TestCreate_InvalidQuantity(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 0}},
		PaymentMethod:   "COD",
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "PI0001", iqErr.ProductID)
}

func TestCreate_ProductNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "missing", Quantity: 1}},
		PaymentMethod:   "COD",
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestCreate_PriceSnapshotAndTotals(t *testing.T) {
	f := newFixture(
		newTestProduct("PI0001", "199.50"),
		newTestProduct("PI0002", "50.00"),
	)

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items: []ItemRequest{
			{ProductID: "PI0001", Quantity: 2},
			{ProductID: "PI0002", Quantity: 3},
		},
		PaymentMethod: "COD",
	})
	require.NoError(t, err)

	require.Len(t, o.Lines, 2)
	assert.True(t, o.Lines[0].UnitPrice.Equal(decimal.RequireFromString("199.50")))
	assert.True(t, o.Lines[0].Price.Equal(decimal.RequireFromString("399.00")))
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("549.00")))
	// finalPrice = subtotal - 0 + 49.
	assert.True(t, o.FinalPrice.Equal(decimal.RequireFromString("598.00")))
}

func TestCreate_ExpiredCoupon(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))
	f.coupons.byCode["OLD"] = &coupon.Coupon{
		Code:       "OLD",
		Type:       coupon.TypeFixed,
		Value:      decimal.NewFromInt(50),
		ExpiryDate: time.Now().AddDate(0, 0, -1),
		Active:     true,
	}

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
		CouponCode:      "OLD",
	})
	require.ErrorIs(t, err, ErrCouponExpired)
	assert.Nil(t, f.orders.created)
}

func TestCreate_InactiveCoupon(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))
	f.coupons.byCode["OFF"] = &coupon.Coupon{
		Code:       "OFF",
		Type:       coupon.TypeFixed,
		Value:      decimal.NewFromInt(50),
		ExpiryDate: time.Now().AddDate(1, 0, 0),
		Active:     false,
	}

	_, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
		CouponCode:      "OFF",
	})
	require.ErrorIs(t, err, ErrCouponInactive)
}

func TestCreate_DiscountClampedToSubtotal(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "30.00"))
	f.coupons.byCode["BIG"] = &coupon.Coupon{
		Code:       "BIG",
		Type:       coupon.TypeFixed,
		Value:      decimal.NewFromInt(500),
		ExpiryDate: time.Now().AddDate(1, 0, 0),
		Active:     true,
	}

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
		CouponCode:      "BIG",
	})
	require.NoError(t, err)
	assert.True(t, o.Discount.Equal(decimal.RequireFromString("30.00")))
	// Shipping is never discounted away: finalPrice = 30 - 30 + 49.
	assert.True(t, o.FinalPrice.Equal(decimal.RequireFromString("49.00")))
}

func TestCreate_AccrualFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "500.00"))
	f.accruer.err = errors.New("ledger down")

	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "RAZORPAY",
		ProviderOrderID: "order_123",
		PaymentID:       "pay_456",
		Signature:       "sig",
	})
	require.NoError(t, err)
	assert.NotNil(t, o)
	assert.NotNil(t, f.orders.created)
}

func TestUpdateStatus_Delivered(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))
	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
	})
	require.NoError(t, err)
	require.Equal(t, PaymentPending, o.PaymentStatus)

	updated, err := f.svc.UpdateStatus(context.Background(), o.ID, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveryDate)
	assert.Equal(t, PaymentCompleted, updated.PaymentStatus, "delivery forces payment completion")
}

func TestUpdateStatus_Unknown(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), "any", "TELEPORTED")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestMarkCodAsPaid(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "500.00"))
	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "COD",
	})
	require.NoError(t, err)
	require.Empty(t, f.accruer.credited)

	paid, err := f.svc.MarkCodAsPaid(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, paid.PaymentStatus)

	// finalPrice = 549, floor(549/10) = 54, credited exactly once.
	require.Len(t, f.accruer.credited, 1)
	assert.Equal(t, 54, f.accruer.credited[0])

	_, err = f.svc.MarkCodAsPaid(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Len(t, f.accruer.credited, 1, "no double accrual")
}

func TestMarkCodAsPaid_NotCod(t *testing.T) {
	f := newFixture(newTestProduct("PI0001", "100.00"))
	o, err := f.svc.Create(context.Background(), 1, CreateRequest{
		ShippingAddress: validAddress(),
		Items:           []ItemRequest{{ProductID: "PI0001", Quantity: 1}},
		PaymentMethod:   "RAZORPAY",
		ProviderOrderID: "order_123",
		PaymentID:       "pay_456",
		Signature:       "sig",
	})
	require.NoError(t, err)

	_, err = f.svc.MarkCodAsPaid(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrNotCashOnDelivery)
}
