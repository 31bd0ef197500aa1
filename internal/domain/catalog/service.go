package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validation errors for product input.
var (
	ErrNameRequired  = errors.New("product name is required")
	ErrNegativePrice = errors.New("price must not be negative")
)

// ProductInput holds the editable fields of a product. Rating, review count
// and date added are managed by the service and not editable from the outside.
type ProductInput struct {
	Name        string
	Brand       string
	Category    string
	Description string
	Price       decimal.Decimal
	Quantity    int
	ImageURL    string
	CarbonSaved decimal.Decimal
}

// Service implements catalog operations on top of a Repository and the
// product id Sequence.
type Service struct {
	repo Repository
	seq  Sequence
	now  func() time.Time
}

// NewService creates a catalog Service.
func NewService(repo Repository, seq Sequence) *Service {
	return &Service{repo: repo, seq: seq, now: time.Now}
}

// Create allocates the next PIxxxx identifier and persists a new product with
// a zero rating aggregate.
func (s *Service) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	n, err := s.seq.NextProductNumber(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "allocate product id")
	}

	p := &Product{
		ID:          fmt.Sprintf("PI%04d", n),
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
		CarbonSaved: in.CarbonSaved,
		Rating:      decimal.Zero,
		ReviewCount: 0,
		DateAdded:   s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return p, nil
}

// Update overwrites the editable fields of an existing product. The rating
// aggregate and date added are preserved.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Brand = in.Brand
	p.Category = in.Category
	p.Description = in.Description
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.ImageURL = in.ImageURL
	p.CarbonSaved = in.CarbonSaved

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return p, nil
}

// Delete removes a product. Historical orders referencing the product keep
// their price snapshots and are not touched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all products, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]Product, error) {
	if category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	return s.repo.List(ctx)
}

// Search returns products matching the query across name, brand, category and
// description.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query))
}

func validateInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
