package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecostore/backend/internal/domain/cart"
)

const (
	ensureCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`

	findCartSQL = `SELECT id FROM carts WHERE user_id = $1`

	getCartLineSQL = `SELECT product_id, quantity FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`

	insertCartLineSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)`

	updateCartLineSQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2`

	deleteCartLineSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	listCartLinesSQL = `SELECT product_id, quantity FROM cart_items
		WHERE cart_id = $1 ORDER BY id`

	clearCartLinesSQL = `DELETE FROM cart_items WHERE cart_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// EnsureCart returns the id of the user's cart, creating the row on first use.
func (r *CartRepository) EnsureCart(ctx context.Context, userID int64) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, ensureCartSQL, userID).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensuring cart for user %d: %w", userID, err)
	}
	return id, nil
}

// FindCart returns the id of the user's cart, or cart.ErrCartNotFound.
func (r *CartRepository) FindCart(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, findCartSQL, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, cart.ErrCartNotFound
		}
		return 0, fmt.Errorf("finding cart for user %d: %w", userID, err)
	}
	return id, nil
}

// GetLine returns one cart line, or cart.ErrLineNotFound.
func (r *CartRepository) GetLine(ctx context.Context, cartID int64, productID string) (*cart.Line, error) {
	var line cart.Line
	err := r.pool.QueryRow(ctx, getCartLineSQL, cartID, productID).Scan(&line.ProductID, &line.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrLineNotFound
		}
		return nil, fmt.Errorf("getting cart line: %w", err)
	}
	return &line, nil
}

// InsertLine adds a new line to the cart.
func (r *CartRepository) InsertLine(ctx context.Context, cartID int64, line cart.Line) error {
	_, err := r.pool.Exec(ctx, insertCartLineSQL, cartID, line.ProductID, line.Quantity)
	if err != nil {
		return fmt.Errorf("inserting cart line: %w", err)
	}
	return nil
}

// UpdateLineQuantity overwrites the quantity of an existing line.
func (r *CartRepository) UpdateLineQuantity(ctx context.Context, cartID int64, productID string, quantity int) error {
	tag, err := r.pool.Exec(ctx, updateCartLineSQL, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("updating cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// DeleteLine removes one line from the cart.
func (r *CartRepository) DeleteLine(ctx context.Context, cartID int64, productID string) error {
	tag, err := r.pool.Exec(ctx, deleteCartLineSQL, cartID, productID)
	if err != nil {
		return fmt.Errorf("deleting cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// ListLines returns all lines of the cart in insertion order.
func (r *CartRepository) ListLines(ctx context.Context, cartID int64) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, listCartLinesSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("listing cart lines: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Line, error) {
		var line cart.Line
		err := row.Scan(&line.ProductID, &line.Quantity)
		return line, err
	})
}

// ClearLines removes every line from the cart.
func (r *CartRepository) ClearLines(ctx context.Context, cartID int64) error {
	if _, err := r.pool.Exec(ctx, clearCartLinesSQL, cartID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
