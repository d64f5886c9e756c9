package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt" // For error wrapping

	"calendrette/internal/domain/account"

	"github.com/lib/pq"
)

// Custom errors
var ErrAccountNotFound = account.ErrNotFound
var ErrDuplicateEmail = fmt.Errorf("account with this email already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `INSERT INTO users (email, password_hash)
               VALUES ($1, $2)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "users_email_key" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at
               FROM users WHERE id = $1`
	a := &account.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error getting account by ID: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at
               FROM users WHERE email = $1`
	a := &account.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error getting account by email: %w", err)
	}
	return a, nil
}
