package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/internal/password"
	"taskboard/internal/repository"
	"taskboard/internal/token"
)

// fakeUserRepo implements repository.UserRepository in memory.
type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	failure error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.failure != nil {
		return f.failure
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func testCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(&config.Config{
		JWTSecret:      strings.Repeat("k", 32),
		JWTAlgorithm:   "HS256",
		JWTExpiryHours: 24,
	})
	require.NoError(t, err)
	return codec
}

func TestSignUp(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec(t)
	auth := NewAuth(repo, codec)

	name := "Alice"
	user, signed, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", &name)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.True(t, strings.HasPrefix(user.HashedPassword, "$argon2id$"))
	assert.True(t, password.Verify("longenough1", user.HashedPassword))

	// The token's subject is the created user's identifier.
	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.Subject(claims))
	assert.Equal(t, "access", claims["type"])

	exp, _ := claims["exp"].(float64)
	assert.InDelta(t, time.Now().Add(24*time.Hour).Unix(), exp, 5)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuth(repo, testCodec(t))

	_, _, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)

	// Conflict regardless of the other fields.
	name := "someone else"
	_, _, err = auth.SignUp(context.Background(), "a@x.com", "differentpass2", &name)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuth(repo, testCodec(t))

	created, _, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)

	user, signed, err := auth.SignIn(context.Background(), "a@x.com", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, signed)
}

func TestSignIn_Enumeration(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuth(repo, testCodec(t))

	_, _, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)

	// Unknown email and wrong password fail with the same error value.
	_, _, errUnknown := auth.SignIn(context.Background(), "nobody@x.com", "longenough1")
	_, _, errWrongPass := auth.SignIn(context.Background(), "a@x.com", "wrong password")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPass)
}

func TestSignIn_DeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuth(repo, testCodec(t))

	user, _, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)
	user.IsActive = false

	_, _, err = auth.SignIn(context.Background(), "a@x.com", "longenough1")
	assert.ErrorIs(t, err, ErrAccountDeactivated)

	// Deactivation is only reported after the password verifies.
	_, _, err = auth.SignIn(context.Background(), "a@x.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSession(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec(t)
	auth := NewAuth(repo, codec)

	created, signed, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)

	user, claims, err := auth.Session(context.Background(), signed)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.ID, token.Subject(claims))
}

func TestSession_Probe(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec(t)
	auth := NewAuth(repo, codec)

	// Absent, invalid, and dangling-subject tokens all mean "no session",
	// never an error.
	for name, tok := range map[string]string{
		"absent":  "",
		"garbage": "not.a.token",
	} {
		user, claims, err := auth.Session(context.Background(), tok)
		assert.NoError(t, err, name)
		assert.Nil(t, user, name)
		assert.Nil(t, claims, name)
	}

	dangling, err := codec.Issue("no-such-user")
	require.NoError(t, err)
	user, claims, err := auth.Session(context.Background(), dangling)
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, claims)
}

func TestUserByID(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuth(repo, testCodec(t))

	created, _, err := auth.SignUp(context.Background(), "a@x.com", "longenough1", nil)
	require.NoError(t, err)

	user, err := auth.UserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	_, err = auth.UserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
