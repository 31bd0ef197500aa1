package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ecostore/backend/internal/domain/dashboard"
)

const (
	countUsersSQL    = `SELECT COUNT(*) FROM users`
	countOrdersSQL   = `SELECT COUNT(*) FROM orders`
	countProductsSQL = `SELECT COUNT(*) FROM products`
	totalSalesSQL    = `SELECT COALESCE(SUM(final_price), 0) FROM orders`
)

var _ dashboard.StatsRepository = (*StatsRepository)(nil)

// StatsRepository implements the store-wide aggregates for the admin
// dashboard.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a StatsRepository that uses the given pool.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// CountUsers returns the total number of registered users.
func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// CountOrders returns the total number of orders ever placed.
func (r *StatsRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countOrdersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

// CountProducts returns the total number of catalog products.
func (r *StatsRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, countProductsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

// TotalSales returns the sum of final prices across all orders.
func (r *StatsRepository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, totalSalesSQL).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing sales: %w", err)
	}
	return total, nil
}
