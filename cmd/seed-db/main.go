// Command seed-db loads products from a JSON file, seeds the starter coupons
// and creates the admin account. Safe to run repeatedly: everything upserts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecostore/backend/internal/repository"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl"`
	CarbonSaved decimal.Decimal `json:"carbonSaved"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@ecostore.local", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or ECOSTORE_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("ECOSTORE_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or ECOSTORE_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products (id, name, brand, category, description, price, quantity, image_url, carbon_saved)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, brand = EXCLUDED.brand, category = EXCLUDED.category,
		description = EXCLUDED.description, price = EXCLUDED.price, quantity = EXCLUDED.quantity,
		image_url = EXCLUDED.image_url, carbon_saved = EXCLUDED.carbon_saved`

// bumpSequenceSQL keeps the id sequence ahead of any seeded PIxxxx ids so
// later API-created products never collide.
const bumpSequenceSQL = `SELECT setval('product_id_seq', GREATEST($1::bigint, last_value)) FROM product_id_seq`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	var maxNum int64
	for _, p := range products {
		_, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Brand, p.Category, p.Description,
			p.Price, p.Quantity, p.ImageURL, p.CarbonSaved,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		if n, ok := parseProductNumber(p.ID); ok && n > maxNum {
			maxNum = n
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	if maxNum > 0 {
		if _, err := pool.Exec(ctx, bumpSequenceSQL, maxNum); err != nil {
			return errors.Wrap(err, "bump product sequence")
		}
	}

	return nil
}

// parseProductNumber extracts the numeric part of a PIxxxx identifier.
func parseProductNumber(id string) (int64, bool) {
	if len(id) < 3 || id[:2] != "PI" {
		return 0, false
	}
	var v int64
	for _, c := range id[2:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int64(c-'0')
	}
	return v, true
}

const upsertCouponSQL = `INSERT INTO coupons (code, discount_type, value, expiry_date, active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (code) DO UPDATE SET
		discount_type = EXCLUDED.discount_type, value = EXCLUDED.value,
		expiry_date = EXCLUDED.expiry_date, active = EXCLUDED.active`

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding starter coupons")

	expiry := time.Now().AddDate(1, 0, 0)
	coupons := []struct {
		code         string
		discountType string
		value        decimal.Decimal
	}{
		{"WELCOME10", "PERCENTAGE", decimal.NewFromInt(10)},
		{"ECOSAVER", "FIXED", decimal.NewFromInt(100)},
	}

	for _, c := range coupons {
		_, err := pool.Exec(ctx, upsertCouponSQL, c.code, c.discountType, c.value, expiry, true)
		if err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}

		slog.Info("upserted coupon", slog.String("code", c.code))
	}

	return nil
}

const upsertAdminSQL = `INSERT INTO users (username, email, password_hash, role)
	VALUES ($1, $2, $3, 'ADMIN')
	ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = 'ADMIN'`

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	if _, err := pool.Exec(ctx, upsertAdminSQL, "admin", email, string(hash)); err != nil {
		return errors.Wrap(err, "upsert admin user")
	}

	return nil
}
