package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/order"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	order.Repository
	orders []order.Order
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ int64) ([]order.Order, error) {
	return m.orders, nil
}

type mockProductRepo struct {
	catalog.Repository
	products []catalog.Product
}

func (m *mockProductRepo) GetByIDs(_ context.Context, _ []string) ([]catalog.Product, error) {
	return m.products, nil
}

type mockStatsRepo struct {
	users, orders, products int64
	sales                   decimal.Decimal
}

func (m *mockStatsRepo) CountUsers(_ context.Context) (int64, error)    { return m.users, nil }
func (m *mockStatsRepo) CountOrders(_ context.Context) (int64, error)   { return m.orders, nil }
func (m *mockStatsRepo) CountProducts(_ context.Context) (int64, error) { return m.products, nil }
func (m *mockStatsRepo) TotalSales(_ context.Context) (decimal.Decimal, error) {
	return m.sales, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Tests ---

func TestUserStats(t *testing.T) {
	orders := &mockOrderRepo{orders: []order.Order{
		{
			FinalPrice: dec("549.00"),
			Discount:   dec("50.00"),
			Status:     order.StatusDelivered,
			Lines:      []order.Line{{ProductID: "PI0001", Quantity: 2}},
		},
		{
			FinalPrice: dec("949.00"),
			Discount:   dec("0"),
			Status:     order.StatusShipped,
			Lines:      []order.Line{{ProductID: "PI0002", Quantity: 1}},
		},
		{
			FinalPrice: dec("100.00"),
			Discount:   dec("0"),
			Status:     order.StatusCancelled,
		},
	}}
	products := &mockProductRepo{products: []catalog.Product{
		{ID: "PI0001", CarbonSaved: dec("0.80")},
		{ID: "PI0002", CarbonSaved: dec("3.20")},
	}}

	svc := NewService(orders, products, &mockStatsRepo{})
	stats, err := svc.UserStats(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, stats.TotalSpent.Equal(dec("1598.00")), "spent %s", stats.TotalSpent)
	assert.True(t, stats.TotalSaved.Equal(dec("50.00")))
	// 2 x 0.80 + 1 x 3.20 = 4.80.
	assert.True(t, stats.CarbonSaved.Equal(dec("4.80")), "carbon %s", stats.CarbonSaved)
	// floor(1598/10) = 159.
	assert.Equal(t, 159, stats.EcoCoinsEarned)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.Equal(t, 1, stats.PendingOrders, "cancelled counts as neither")
}

func TestUserStats_Empty(t *testing.T) {
	svc := NewService(&mockOrderRepo{}, &mockProductRepo{}, &mockStatsRepo{})

	stats, err := svc.UserStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalSpent.IsZero())
	assert.Zero(t, stats.EcoCoinsEarned)
}

func TestUserStats_DeletedProductContributesNoCarbon(t *testing.T) {
	orders := &mockOrderRepo{orders: []order.Order{
		{
			FinalPrice: dec("149.00"),
			Status:     order.StatusPlaced,
			Lines:      []order.Line{{ProductID: "gone", Quantity: 3}},
		},
	}}
	svc := NewService(orders, &mockProductRepo{}, &mockStatsRepo{})

	stats, err := svc.UserStats(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, stats.CarbonSaved.IsZero())
}

func TestRecentOrders_Capped(t *testing.T) {
	orders := &mockOrderRepo{orders: make([]order.Order, 10)}
	svc := NewService(orders, &mockProductRepo{}, &mockStatsRepo{})

	recent, err := svc.RecentOrders(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestAdminStats(t *testing.T) {
	stats := &mockStatsRepo{users: 12, orders: 34, products: 56, sales: dec("78900.00")}
	svc := NewService(&mockOrderRepo{}, &mockProductRepo{}, stats)

	got, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.TotalUsers)
	assert.Equal(t, int64(34), got.TotalOrders)
	assert.Equal(t, int64(56), got.TotalProducts)
	assert.True(t, got.TotalSales.Equal(dec("78900.00")))
}
