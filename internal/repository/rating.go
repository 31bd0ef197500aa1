package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecostore/backend/internal/domain/rating"
)

const (
	getRatingSQL = `SELECT user_id, product_id, value FROM ratings
		WHERE user_id = $1 AND product_id = $2`

	createRatingSQL = `INSERT INTO ratings (user_id, product_id, value)
		VALUES ($1, $2, $3)`

	deleteRatingSQL = `DELETE FROM ratings WHERE user_id = $1 AND product_id = $2`

	listRatingsForProductSQL = `SELECT user_id, product_id, value FROM ratings
		WHERE product_id = $1 ORDER BY id`

	listRatingsForUserSQL = `SELECT user_id, product_id, value FROM ratings
		WHERE user_id = $1 ORDER BY id`
)

var _ rating.Repository = (*RatingRepository)(nil)

// RatingRepository implements rating.Repository backed by PostgreSQL.
type RatingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a RatingRepository that uses the given pool.
func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Get returns one user's rating of one product, or rating.ErrNotFound.
func (r *RatingRepository) Get(ctx context.Context, userID int64, productID string) (*rating.Rating, error) {
	rows, err := r.pool.Query(ctx, getRatingSQL, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("getting rating: %w", err)
	}

	rt, err := pgx.CollectExactlyOneRow(rows, scanRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rating.ErrNotFound
		}
		return nil, fmt.Errorf("getting rating: %w", err)
	}
	return &rt, nil
}

// Create persists a new rating. The (user, product) pair is unique.
func (r *RatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	_, err := r.pool.Exec(ctx, createRatingSQL, rt.UserID, rt.ProductID, rt.Value)
	if err != nil {
		return fmt.Errorf("creating rating: %w", err)
	}
	return nil
}

// Delete removes one user's rating of one product.
func (r *RatingRepository) Delete(ctx context.Context, userID int64, productID string) error {
	tag, err := r.pool.Exec(ctx, deleteRatingSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rating.ErrNotFound
	}
	return nil
}

// ListForProduct returns all ratings for the given product.
func (r *RatingRepository) ListForProduct(ctx context.Context, productID string) ([]rating.Rating, error) {
	rows, err := r.pool.Query(ctx, listRatingsForProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing ratings for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanRating)
}

// ListForUser returns all ratings submitted by the given user.
func (r *RatingRepository) ListForUser(ctx context.Context, userID int64) ([]rating.Rating, error) {
	rows, err := r.pool.Query(ctx, listRatingsForUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing ratings for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanRating)
}

func scanRating(row pgx.CollectableRow) (rating.Rating, error) {
	var rt rating.Rating
	err := row.Scan(&rt.UserID, &rt.ProductID, &rt.Value)
	return rt, err
}
