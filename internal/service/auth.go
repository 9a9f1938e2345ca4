// Package service implements the authentication flows over the user
// repository and the token codec.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskboard/internal/models"
	"taskboard/internal/password"
	"taskboard/internal/repository"
	"taskboard/internal/token"
	"taskboard/pkg/logger"
)

var (
	// ErrEmailTaken means sign-up hit an already registered email.
	ErrEmailTaken = repository.ErrEmailTaken
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated means credentials verified but the account is inactive.
	ErrAccountDeactivated = errors.New("account deactivated")
)

// Auth orchestrates sign-up, sign-in and session introspection.
type Auth struct {
	users repository.UserRepository
	codec *token.Codec
}

// NewAuth constructs an Auth service from its collaborators.
func NewAuth(users repository.UserRepository, codec *token.Codec) *Auth {
	return &Auth{users: users, codec: codec}
}

// TokenTTL returns the lifetime of issued tokens.
func (a *Auth) TokenTTL() time.Duration {
	return a.codec.TTL()
}

// SignUp registers a new account and issues its first token.
// Email is compared exactly as stored; no normalization is applied.
func (a *Auth) SignUp(ctx context.Context, email, plain string, name *string) (*models.User, string, error) {
	_, err := a.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashed,
		Name:           name,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// The unique index backstops the pre-check against concurrent sign-ups.
	if err := a.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	signed, err := a.codec.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	logger.Info(ctx, "User signed up", "user_id", user.ID)
	return user, signed, nil
}

// SignIn verifies credentials and issues a token. Unknown email and
// wrong password fail identically with ErrInvalidCredentials.
func (a *Auth) SignIn(ctx context.Context, email, plain string) (*models.User, string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !password.Verify(plain, user.HashedPassword) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	signed, err := a.codec.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	logger.Info(ctx, "User signed in", "user_id", user.ID)
	return user, signed, nil
}

// Session resolves a bearer token to its user, as a probe: a missing,
// invalid or expired token, or a subject without a user row, all yield
// nil results rather than an error.
func (a *Auth) Session(ctx context.Context, tokenStr string) (*models.User, jwt.MapClaims, error) {
	if tokenStr == "" {
		return nil, nil, nil
	}
	claims, err := a.codec.Decode(tokenStr)
	if err != nil {
		return nil, nil, nil
	}
	subject := token.Subject(claims)
	if subject == "" {
		return nil, nil, nil
	}
	user, err := a.users.GetByID(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// UserByID fetches the user record behind an authenticated subject.
func (a *Auth) UserByID(ctx context.Context, id string) (*models.User, error) {
	return a.users.GetByID(ctx, id)
}
