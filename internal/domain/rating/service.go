package rating

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ecostore/backend/internal/domain/catalog"
)

var (
	minValue = decimal.NewFromInt(1)
	maxValue = decimal.NewFromInt(5)
)

// Service maintains the product rating aggregate. Insertion updates the
// average incrementally; deletion recomputes it from the remaining ratings.
// The asymmetry is deliberate: the incremental mean is only valid because
// ratings are write-once, while deletion invalidates that assumption for the
// removed contribution.
type Service struct {
	ratings  Repository
	products catalog.Repository
}

// NewService creates a rating Service.
func NewService(ratings Repository, products catalog.Repository) *Service {
	return &Service{ratings: ratings, products: products}
}

/// Submit records a new rating and folds it into the product's running average:
//
//	newAvg = round2((oldAvg*oldCount + value) / (oldCount + 1))
//
// A second submission for the same (user, product) pair fails with
// ErrAlreadyRated.
func (s *Service) Submit(ctx context.Context, userID int64, productID string, value decimal.Decimal) (*Rating, error) {
	if value.LessThan(minValue) || value.GreaterThan(maxValue) {
		return nil, ErrInvalidValue
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	_, err = s.ratings.Get(ctx, userID, productID)
	switch {
	case err == nil:
		return nil, ErrAlreadyRated
	case !errors.Is(err, ErrNotFound):
		return nil, errors.Wrap(err, "check existing rating")
	}

	r := &Rating{UserID: userID, ProductID: productID, Value: value}
	if err := s.ratings.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create rating")
	}

	var (
		avg   decimal.Decimal
		count int
	)
	if p.ReviewCount == 0 {
		avg = value.Round(2)
		count = 1
	} else {
		oldCount := decimal.NewFromInt(int64(p.ReviewCount))
		avg = p.Rating.Mul(oldCount).Add(value).Div(oldCount.Add(decimal.NewFromInt(1))).Round(2)
		count = p.ReviewCount + 1
	}

	if err := s.products.UpdateRating(ctx, productID, avg, count); err != nil {
		return nil, errors.Wrap(err, "update product rating")
	}
	return r, nil
}

// Delete removes the user's rating for a product and recomputes the product
// average from scratch over the remaining ratings, falling back to 0/0 when
// none remain.
func (s *Service) Delete(ctx context.Context, userID int64, productID string) error {
	if _, err := s.ratings.Get(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.ratings.Delete(ctx, userID, productID); err != nil {
		return errors.Wrap(err, "delete rating")
	}

	remaining, err := s.ratings.ListForProduct(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "list remaining ratings")
	}

	avg := decimal.Zero
	if len(remaining) > 0 {
		sum := decimal.Zero
		for _, r := range remaining {
			sum = sum.Add(r.Value)
		}
		avg = sum.Div(decimal.NewFromInt(int64(len(remaining)))).Round(2)
	}

	if err := s.products.UpdateRating(ctx, productID, avg, len(remaining)); err != nil {
		return errors.Wrap(err, "update product rating")
	}
	return nil
}

// ForProduct returns every rating submitted for a product.
func (s *Service) ForProduct(ctx context.Context, productID string) ([]Rating, error) {
	return s.ratings.ListForProduct(ctx, productID)
}

// ForUser returns every rating the user has submitted.
func (s *Service) ForUser(ctx context.Context, userID int64) ([]Rating, error) {
	return s.ratings.ListForUser(ctx, userID)
}
