package rating

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecostore/backend/internal/domain/catalog"
)

// --- Mock implementations ---

type key struct {
	userID    int64
	productID string
}

type mockRatingRepo struct {
	ratings map[key]*Rating
}

func newMockRatingRepo() *mockRatingRepo {
	return &mockRatingRepo{ratings: make(map[key]*Rating)}
}

func (m *mockRatingRepo) Get(_ context.Context, userID int64, productID string) (*Rating, error) {
	r, ok := m.ratings[key{userID, productID}]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockRatingRepo) Create(_ context.Context, r *Rating) error {
	m.ratings[key{r.UserID, r.ProductID}] = r
	return nil
}

func (m *mockRatingRepo) Delete(_ context.Context, userID int64, productID string) error {
	delete(m.ratings, key{userID, productID})
	return nil
}

func (m *mockRatingRepo) ListForProduct(_ context.Context, productID string) ([]Rating, error) {
	var out []Rating
	for k, r := range m.ratings {
		if k.productID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRatingRepo) ListForUser(_ context.Context, userID int64) ([]Rating, error) {
	var out []Rating
	for k, r := range m.ratings {
		if k.userID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type mockProductRepo struct {
	catalog.Repository
	product *catalog.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	if m.product == nil || m.product.ID != id {
		return nil, catalog.ErrNotFound
	}
	return m.product, nil
}

func (m *mockProductRepo) UpdateRating(_ context.Context, _ string, rating decimal.Decimal, count int) error {
	m.product.Rating = rating
	m.product.ReviewCount = count
	return nil
}

// --- Helpers ---

func newTestService() (*Service, *mockProductRepo) {
	products := &mockProductRepo{product: &catalog.Product{
		ID:     "PI0001",
		Rating: decimal.Zero,
	}}
	return NewService(newMockRatingRepo(), products), products
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Tests ---

func TestSubmit_InvalidValue(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Submit(context.Background(), 1, "PI0001", dec("0.5"))
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.Submit(context.Background(), 1, "PI0001", dec("5.1"))
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestSubmit_UnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Submit(context.Background(), 1, "missing", dec("4"))
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSubmit_FirstRating(t *testing.T) {
	svc, products := newTestService()

	_, err := svc.Submit(context.Background(), 1, "PI0001", dec("4"))
	require.NoError(t, err)
	assert.True(t, products.product.Rating.Equal(dec("4.00")))
	assert.Equal(t, 1, products.product.ReviewCount)
}

func TestSubmit_IncrementalAverage(t *testing.T) {
	svc, products := newTestService()

	_, err := svc.Submit(context.Background(), 1, "PI0001", dec("4"))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 2, "PI0001", dec("5"))
	require.NoError(t, err)

	assert.True(t, products.product.Rating.Equal(dec("4.50")),
		"got %s", products.product.Rating)
	assert.Equal(t, 2, products.product.ReviewCount)
}

func TestSubmit_Duplicate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Submit(context.Background(), 1, "PI0001", dec("4"))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 1, "PI0001", dec("5"))
	require.ErrorIs(t, err, ErrAlreadyRated)
}

func TestDelete_RecomputesAverage(t *testing.T) {
	svc, products := newTestService()

	for i, v := range []string{"2", "4", "5"} {
		_, err := svc.Submit(context.Background(), int64(i+1), "PI0001", dec(v))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(context.Background(), 1, "PI0001"))

	// Remaining 4 and 5 average to 4.50.
	assert.True(t, products.product.Rating.Equal(dec("4.50")),
		"got %s", products.product.Rating)
	assert.Equal(t, 2, products.product.ReviewCount)
}

func TestDelete_LastRatingResetsToZero(t *testing.T) {
	svc, products := newTestService()

	_, err := svc.Submit(context.Background(), 1, "PI0001", dec("3"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, "PI0001"))
	assert.True(t, products.product.Rating.IsZero())
	assert.Equal(t, 0, products.product.ReviewCount)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), 1, "PI0001")
	require.ErrorIs(t, err, ErrNotFound)
}
