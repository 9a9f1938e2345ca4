// Package repository provides Postgres persistence for users and tasks.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taskboard/internal/models"
)

var (
	// ErrNotFound means no row satisfied the query predicates.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken means the users unique email constraint was violated.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines the persistence operations required for user accounts.
type UserRepository interface {
	// Create persists a new user. Returns ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail fetches a user by exact email match. Returns ErrNotFound
	// when no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID fetches a user by identifier. Returns ErrNotFound when no
	// such user exists.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// PostgresUserRepository implements UserRepository on a Postgres database.
type PostgresUserRepository struct {
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository with the given connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, hashed_password, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.HashedPassword, user.Name, user.IsActive, user.CreatedAt, user.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	// Exact match as stored: email is not normalized anywhere.
	return r.getOne(ctx,
		`SELECT id, email, hashed_password, name, is_active, created_at, updated_at
		 FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT id, email, hashed_password, name, is_active, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
