// Package dashboard computes read-only rollups over order history, per user
// and store-wide.
package dashboard

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/loyalty"
	"github.com/ecostore/backend/internal/domain/order"
)

// UserStats is the per-user dashboard rollup.
type UserStats struct {
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	TotalSaved      decimal.Decimal `json:"totalSaved"`
	EcoCoinsEarned  int             `json:"ecoCoinsEarned"`
	CarbonSaved     decimal.Decimal `json:"totalCarbonSaved"`
	TotalOrders     int             `json:"totalOrders"`
	CompletedOrders int             `json:"completedOrders"`
	PendingOrders   int             `json:"pendingOrders"`
}

// AdminStats is the store-wide rollup for the admin dashboard.
type AdminStats struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalProducts int64           `json:"totalProducts"`
	TotalSales    decimal.Decimal `json:"totalSales"`
}

// StatsRepository provides the store-wide aggregate queries.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (decimal.Decimal, error)
}

// Service computes dashboard rollups.
type Service struct {
	orders   order.Repository
	products catalog.Repository
	stats    StatsRepository
}

// NewService creates a dashboard Service.
func NewService(orders order.Repository, products catalog.Repository, stats StatsRepository) *Service {
	return &Service{orders: orders, products: products, stats: stats}
}

// UserStats aggregates spend, savings, carbon impact and order counts over
// the user's full order history. Carbon figures come from the current catalog
// records; lines referencing deleted products contribute nothing.
func (s *Service) UserStats(ctx context.Context, userID int64) (*UserStats, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	stats := &UserStats{
		TotalSpent:  decimal.Zero,
		TotalSaved:  decimal.Zero,
		CarbonSaved: decimal.Zero,
		TotalOrders: len(orders),
	}

	productIDs := make([]string, 0, len(orders))
	seen := make(map[string]bool)
	for _, o := range orders {
		stats.TotalSpent = stats.TotalSpent.Add(o.FinalPrice)
		stats.TotalSaved = stats.TotalSaved.Add(o.Discount)

		switch o.Status {
		case order.StatusDelivered:
			stats.CompletedOrders++
		case order.StatusPlaced, order.StatusConfirmed, order.StatusShipped:
			stats.PendingOrders++
		}

		for _, line := range o.Lines {
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				productIDs = append(productIDs, line.ProductID)
			}
		}
	}

	carbonByID := make(map[string]decimal.Decimal, len(productIDs))
	if len(productIDs) > 0 {
		products, err := s.products.GetByIDs(ctx, productIDs)
		if err != nil {
			return nil, errors.Wrap(err, "get products")
		}
		for _, p := range products {
			carbonByID[p.ID] = p.CarbonSaved
		}
	}

	for _, o := range orders {
		for _, line := range o.Lines {
			if carbon, ok := carbonByID[line.ProductID]; ok {
				stats.CarbonSaved = stats.CarbonSaved.Add(carbon.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
		}
	}

	stats.EcoCoinsEarned = loyalty.EarnedFromSpend(stats.TotalSpent)
	return stats, nil
}

// RecentOrders returns the user's latest orders, capped at limit.
func (s *Service) RecentOrders(ctx context.Context, userID int64, limit int) ([]order.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// AdminStats runs the four store-wide aggregates concurrently.
func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.stats.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = s.stats.CountOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.stats.CountProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSales, err = s.stats.TotalSales(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "aggregate stats")
	}
	return stats, nil
}
