// Package rating maintains per-product running average ratings from
// write-once user ratings.
package rating

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for rating operations.
var (
	// ErrNotFound is returned when no rating exists for a (user, product) pair.
	ErrNotFound = errors.New("rating not found")
	// ErrAlreadyRated is returned on a second submission for the same pair.
	// Ratings are write-once; there is no update path.
	ErrAlreadyRated = errors.New("product already rated by this user")
	// ErrInvalidValue is returned for values outside [1.0, 5.0].
	ErrInvalidValue = errors.New("rating must be between 1.0 and 5.0")
)

// Rating is one user's rating of one product.
type Rating struct {
	UserID    int64           `json:"userId"`
	ProductID string          `json:"productId"`
	Value     decimal.Decimal `json:"rating"`
}

// Repository defines persistence operations for individual ratings. The
// (user, product) pair is unique; Create fails on a duplicate.
type Repository interface {
	Get(ctx context.Context, userID int64, productID string) (*Rating, error)
	Create(ctx context.Context, r *Rating) error
	Delete(ctx context.Context, userID int64, productID string) error
	ListForProduct(ctx context.Context, productID string) ([]Rating, error)
	ListForUser(ctx context.Context, userID int64) ([]Rating, error)
}
