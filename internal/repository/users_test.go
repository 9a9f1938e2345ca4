package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"taskboard/internal/models"
)

const userSelect = `SELECT id, email, hashed_password, name, is_active, created_at, updated_at
		 FROM users WHERE email = $1`

func setupUserMock(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresUserRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func sampleUser() *models.User {
	name := "Alice"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.User{
		ID:             "user-1",
		Email:          "alice@example.com",
		HashedPassword: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Name:           &name,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestUserCreate_Success(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	u := sampleUser()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, email, hashed_password, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`)).
		WithArgs(u.ID, u.Email, u.HashedPassword, "Alice", u.IsActive, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	u := sampleUser()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), u)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByEmail_Found(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	u := sampleUser()
	rows := sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.HashedPassword, *u.Name, u.IsActive, u.CreatedAt, u.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(u.Email).
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), u.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email || !got.IsActive {
		t.Errorf("unexpected user: %+v", got)
	}
	if got.Name == nil || *got.Name != "Alice" {
		t.Errorf("expected name Alice, got %v", got.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserGetByEmail_CaseSensitive(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	// Lookup passes the email through verbatim: no LOWER(), no trimming.
	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs("Alice@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "Alice@Example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserGetByID_NullName(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	u := sampleUser()
	rows := sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "is_active", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.HashedPassword, nil, false, u.CreatedAt, u.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(u.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != nil {
		t.Errorf("expected nil name, got %v", *got.Name)
	}
	if got.IsActive {
		t.Errorf("expected inactive user")
	}
}

func TestUserGetByID_QueryError(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnError(errors.New("query failed"))

	_, err := repo.GetByID(context.Background(), "user-1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a raw query error, got %v", err)
	}
}
