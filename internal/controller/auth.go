package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/pkg/logger"
)

// AuthService is what the auth endpoints need from the service layer.
type AuthService interface {
	SignUp(ctx context.Context, email, plain string, name *string) (*models.User, string, error)
	SignIn(ctx context.Context, email, plain string) (*models.User, string, error)
	Session(ctx context.Context, tokenStr string) (*models.User, jwt.MapClaims, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	TokenTTL() time.Duration
}

// AuthController serves the /auth endpoints.
type AuthController struct {
	Auth AuthService
}

type signUpRequest struct {
	Email    string  `json:"email" binding:"required,max=255"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// SignUp registers a new account and returns the provider-shaped
// user/session/token envelope.
func (h *AuthController) SignUp(c *gin.Context) {
	ctx := c.Request.Context()
	var body signUpRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	user, signed, err := h.Auth.SignUp(ctx, body.Email, body.Password, body.Name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, authEnvelope(user, signed, h.Auth.TokenTTL()))
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	default:
		logger.Error(ctx, "Sign-up failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
	}
}

// SignIn authenticates credentials. Unknown email and wrong password
// produce byte-identical responses.
func (h *AuthController) SignIn(c *gin.Context) {
	ctx := c.Request.Context()
	var body signInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	user, signed, err := h.Auth.SignIn(ctx, body.Email, body.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, authEnvelope(user, signed, h.Auth.TokenTTL()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrAccountDeactivated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account deactivated"})
	default:
		logger.Error(ctx, "Sign-in failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
	}
}

// Session is a probe: it reports the session behind the bearer token,
// or nulls, and never fails on a bad token.
func (h *AuthController) Session(c *gin.Context) {
	ctx := c.Request.Context()
	tokenStr := middleware.BearerToken(c)
	user, claims, err := h.Auth.Session(ctx, tokenStr)
	if err != nil {
		logger.Error(ctx, "Session lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil, "session": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email, "name": user.Name},
		"session": models.SessionPayload{
			ID:        "sess_" + user.ID,
			ExpiresAt: claimTime(claims, "exp"),
			Token:     tokenStr,
		},
	})
}

// SignOut acknowledges sign-out. Tokens are self-contained bearers, so
// there is no server-side session to invalidate.
func (h *AuthController) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated caller's summary. Provider tokens carry
// email and name claims; self-minted ones do not, so missing fields are
// filled from the credential store.
func (h *AuthController) Me(c *gin.Context) {
	ctx := c.Request.Context()
	subject := c.GetString(middleware.UserKey)
	claims, _ := c.Get(middleware.ClaimsKey)
	mapClaims, _ := claims.(jwt.MapClaims)

	email := claimString(mapClaims, "email", "emailAddress")
	name := claimString(mapClaims, "name", "username")
	if email == "" || name == "" {
		if user, err := h.Auth.UserByID(ctx, subject); err == nil {
			if email == "" {
				email = user.Email
			}
			if name == "" && user.Name != nil {
				name = *user.Name
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": subject, "email": orNil(email), "name": orNil(name)},
	})
}

// Verify confirms the bearer token is valid. For frontend auth checks.
func (h *AuthController) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       c.GetString(middleware.UserKey),
	})
}

func authEnvelope(user *models.User, signed string, ttl time.Duration) models.AuthResponse {
	return models.AuthResponse{
		User: models.UserPayload{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
			UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
		},
		Session: models.SessionPayload{
			ID:        "sess_" + user.ID,
			ExpiresAt: time.Now().UTC().Add(ttl).Format(time.RFC3339),
			Token:     signed,
		},
		Token: signed,
	}
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func claimTime(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(float64); ok {
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
	}
	return ""
}

func orNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

var _ AuthService = (*service.Auth)(nil)
