// Package catalog holds the product catalog: product records, lookup and
// search, and monotonic PIxxxx identifier allocation.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no product exists for the requested identifier.
var ErrNotFound = errors.New("product not found")

// Product is a catalog entry. Rating and ReviewCount form the running average
// maintained by the rating aggregator; they are never edited directly.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl"`
	CarbonSaved decimal.Decimal `json:"carbonSaved"`
	Rating      decimal.Decimal `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	DateAdded   time.Time       `json:"dateAdded"`
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListRecent(ctx context.Context, limit int) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	// UpdateRating overwrites the running average and review count. Used only
	// by the rating aggregator.
	UpdateRating(ctx context.Context, id string, rating decimal.Decimal, count int) error
}

// Sequence allocates monotonically increasing product numbers. Backed by a
// database sequence so allocation survives restarts; the original scheme of
// parsing the last row's id is not safe under concurrent creation.
type Sequence interface {
	NextProductNumber(ctx context.Context) (int64, error)
}
