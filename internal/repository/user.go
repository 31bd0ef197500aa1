package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecostore/backend/internal/domain/loyalty"
	"github.com/ecostore/backend/internal/domain/user"
)

const (
	userColumns = `id, username, email, password_hash, phone, date_of_birth,
		role, ecocoin_balance, created_at`

	createUserSQL = `INSERT INTO users (username, email, password_hash, phone, date_of_birth, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, ecocoin_balance, created_at`

	updateUserSQL = `UPDATE users SET username = $2, email = $3, phone = $4, date_of_birth = $5
		WHERE id = $1`

	getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	existsUsernameSQL = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	existsEmailSQL = `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	getBalanceSQL = `SELECT ecocoin_balance FROM users WHERE id = $1`

	setBalanceSQL = `UPDATE users SET ecocoin_balance = $2 WHERE id = $1`
)

var (
	_ user.Repository           = (*UserRepository)(nil)
	_ loyalty.BalanceRepository = (*UserRepository)(nil)
)

// UserRepository implements user.Repository backed by PostgreSQL. The EcoCoin
// balance lives on the users row, so it also serves loyalty.BalanceRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user and fills in the generated id, balance and
// creation timestamp.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, createUserSQL,
		u.Username, u.Email, u.PasswordHash, u.Phone, u.DateOfBirth, u.Role,
	).Scan(&u.ID, &u.EcoCoinBalance, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	return nil
}

// Update overwrites the profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	tag, err := r.pool.Exec(ctx, updateUserSQL,
		u.ID, u.Username, u.Email, u.Phone, u.DateOfBirth,
	)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// GetByID returns a single user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// GetByEmail returns a single user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return &u, nil
}

// ExistsByUsername reports whether any user holds the given username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, existsUsernameSQL, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username %q: %w", username, err)
	}
	return exists, nil
}

// ExistsByEmail reports whether any user holds the given email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, existsEmailSQL, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}

// Balance returns the user's current EcoCoin balance.
func (r *UserRepository) Balance(ctx context.Context, userID int64) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx, getBalanceSQL, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, user.ErrNotFound
		}
		return 0, fmt.Errorf("getting balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// SetBalance overwrites the user's EcoCoin balance.
func (r *UserRepository) SetBalance(ctx context.Context, userID int64, balance int) error {
	tag, err := r.pool.Exec(ctx, setBalanceSQL, userID, balance)
	if err != nil {
		return fmt.Errorf("setting balance for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.DateOfBirth,
		&role, &u.EcoCoinBalance, &u.CreatedAt,
	)
	u.Role = user.Role(role)
	return u, err
}
