// Package cart holds the per-user shopping cart: a mutable set of
// product+quantity lines, created lazily on first mutation.
package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors for cart operations.
var (
	ErrCartNotFound = errors.New("cart not found")
	ErrLineNotFound = errors.New("cart item not found")
	ErrInvalidQty   = errors.New("quantity must be greater than 0")
)

// Line is one product entry in a cart.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the full cart contents for one user.
type Cart struct {
	UserID int64  `json:"userId"`
	Lines  []Line `json:"items"`
}

// Repository defines persistence operations for carts and their lines.
// EnsureCart creates the user's cart row on first use and returns its id.
type Repository interface {
	EnsureCart(ctx context.Context, userID int64) (int64, error)
	FindCart(ctx context.Context, userID int64) (int64, error)
	GetLine(ctx context.Context, cartID int64, productID string) (*Line, error)
	InsertLine(ctx context.Context, cartID int64, line Line) error
	UpdateLineQuantity(ctx context.Context, cartID int64, productID string, quantity int) error
	DeleteLine(ctx context.Context, cartID int64, productID string) error
	ListLines(ctx context.Context, cartID int64) ([]Line, error)
	ClearLines(ctx context.Context, cartID int64) error
}
