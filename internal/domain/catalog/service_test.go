package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockRepo struct {
	Repository
	byID    map[string]*Product
	created *Product
	updated *Product
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[string]*Product)}
}

func (m *mockRepo) Create(_ context.Context, p *Product) error {
	m.created = p
	m.byID[p.ID] = p
	return nil
}

func (m *mockRepo) Update(_ context.Context, p *Product) error {
	m.updated = p
	m.byID[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type mockSequence struct {
	next int64
}

func (m *mockSequence) NextProductNumber(_ context.Context) (int64, error) {
	m.next++
	return m.next, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Tests ---

func TestCreate_AllocatesSequentialIDs(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockSequence{})

	p1, err := svc.Create(context.Background(), ProductInput{Name: "Bottle", Price: dec("899")})
	require.NoError(t, err)
	p2, err := svc.Create(context.Background(), ProductInput{Name: "Tote", Price: dec("349")})
	require.NoError(t, err)

	assert.Equal(t, "PI0001", p1.ID)
	assert.Equal(t, "PI0002", p2.ID)
}

func TestCreate_WideSequenceNumber(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockSequence{next: 12344})

	p, err := svc.Create(context.Background(), ProductInput{Name: "Bottle", Price: dec("899")})
	require.NoError(t, err)
	// The PI prefix pads to four digits but never truncates.
	assert.Equal(t, "PI12345", p.ID)
}

func TestCreate_ZeroRatingAggregate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockSequence{})

	p, err := svc.Create(context.Background(), ProductInput{Name: "Bottle", Price: dec("899")})
	require.NoError(t, err)
	assert.True(t, p.Rating.IsZero())
	assert.Zero(t, p.ReviewCount)
	assert.False(t, p.DateAdded.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockSequence{})

	_, err := svc.Create(context.Background(), ProductInput{Name: "  ", Price: dec("10")})
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), ProductInput{Name: "X", Price: dec("-1")})
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestUpdate_PreservesRatingAndDateAdded(t *testing.T) {
	repo := newMockRepo()
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.byID["PI0001"] = &Product{
		ID:          "PI0001",
		Name:        "Old name",
		Price:       dec("100"),
		Rating:      dec("4.50"),
		ReviewCount: 7,
		DateAdded:   added,
	}
	svc := NewService(repo, &mockSequence{})

	p, err := svc.Update(context.Background(), "PI0001", ProductInput{
		Name:  "New name",
		Price: dec("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New name", p.Name)
	assert.True(t, p.Rating.Equal(dec("4.50")))
	assert.Equal(t, 7, p.ReviewCount)
	assert.Equal(t, added, p.DateAdded)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo(), &mockSequence{})

	_, err := svc.Update(context.Background(), "missing", ProductInput{Name: "X", Price: dec("1")})
	require.ErrorIs(t, err, ErrNotFound)
}
