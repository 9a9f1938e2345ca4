package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/token"
	"taskboard/pkg/logger"
)

// Gin context keys set by the auth middleware.
const (
	// UserKey holds the authenticated subject (user identifier).
	UserKey = "user"
	// ClaimsKey holds the full decoded claim set.
	ClaimsKey = "claims"
)

// BearerToken returns the token from the Authorization header, or ""
// when the header is absent or not a Bearer credential.
func BearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// RequireAuth resolves the caller's identity from the bearer token and
// fails the request with 401 before any handler logic when it cannot.
// Expiry and malformation share the status code but not the reason text.
func RequireAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tokenStr := BearerToken(c)
		if tokenStr == "" {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			abortUnauthorized(c, "Not authenticated")
			return
		}
		claims, err := codec.Decode(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				logger.Debug(ctx, "JWT expired")
				abortUnauthorized(c, "Token expired")
				return
			}
			logger.Debug(ctx, "JWT decode failed", "error", err)
			abortUnauthorized(c, "Invalid token")
			return
		}
		subject := token.Subject(claims)
		if subject == "" {
			abortUnauthorized(c, "Invalid token payload - missing user ID")
			return
		}
		c.Set(UserKey, subject)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth resolves identity the same way as RequireAuth but never
// fails the request: absent or bad credentials just mean no identity.
func OptionalAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject := codec.ExtractSubject(BearerToken(c)); subject != "" {
			c.Set(UserKey, subject)
		}
		c.Next()
	}
}

// RequestLogging tags each request with an ID, carries a request-scoped
// logger in the context and logs method, path, status and duration.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logger.WithRequestID(c.Request.Context(), uuid.New().String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		logger.Info(ctx, "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}
