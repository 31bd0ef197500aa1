package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ecostore/backend/internal/domain/catalog"
)

const (
	productColumns = `id, name, brand, category, description, price, quantity,
		image_url, carbon_saved, rating, review_count, date_added`

	createProductSQL = `INSERT INTO products (id, name, brand, category, description, price, quantity,
		image_url, carbon_saved, rating, review_count, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	updateProductSQL = `UPDATE products SET name = $2, brand = $3, category = $4, description = $5,
		price = $6, quantity = $7, image_url = $8, carbon_saved = $9
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products
		WHERE LOWER(category) = LOWER($1) ORDER BY id`

	listRecentProductsSQL = `SELECT ` + productColumns + ` FROM products
		ORDER BY date_added DESC LIMIT $1`

	searchProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE name ILIKE '%' || $1 || '%'
		   OR brand ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		ORDER BY id`

	updateProductRatingSQL = `UPDATE products SET rating = $2, review_count = $3 WHERE id = $1`

	nextProductNumberSQL = `SELECT nextval('product_id_seq')`
)

var (
	_ catalog.Repository = (*ProductRepository)(nil)
	_ catalog.Sequence   = (*ProductRepository)(nil)
)

// ProductRepository implements catalog.Repository backed by PostgreSQL. It
// also serves catalog.Sequence via the product_id_seq sequence.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.Price, p.Quantity,
		p.ImageURL, p.CarbonSaved, p.Rating, p.ReviewCount, p.DateAdded,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update overwrites the editable fields of an existing product. Rating fields
// are excluded; UpdateRating owns those.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Brand, p.Category, p.Description,
		p.Price, p.Quantity, p.ImageURL, p.CarbonSaved,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs. Missing ids are
// simply absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListByCategory returns all products in the given category (case-insensitive).
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing products in category %q: %w", category, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListRecent returns the most recently added products, newest first.
func (r *ProductRepository) ListRecent(ctx context.Context, limit int) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listRecentProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Search returns products whose name, brand or category contains the query,
// case-insensitively.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, searchProductsSQL, query)
	if err != nil {
		return nil, fmt.Errorf("searching products for %q: %w", query, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// UpdateRating overwrites the running average rating and review count.
func (r *ProductRepository) UpdateRating(ctx context.Context, id string, rating decimal.Decimal, count int) error {
	tag, err := r.pool.Exec(ctx, updateProductRatingSQL, id, rating, count)
	if err != nil {
		return fmt.Errorf("updating rating for product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// NextProductNumber allocates the next product number from the database
// sequence. Allocation is monotonic and safe under concurrent creation.
func (r *ProductRepository) NextProductNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, nextProductNumberSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("allocating product number: %w", err)
	}
	return n, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description, &p.Price, &p.Quantity,
		&p.ImageURL, &p.CarbonSaved, &p.Rating, &p.ReviewCount, &p.DateAdded,
	)
	return p, err
}
