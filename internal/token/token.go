// Package token issues and verifies the bearer tokens used by the API.
// Verification accepts tokens minted by this service and tokens minted
// by the external auth provider, which may sign with a different scheme.
package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/config"
)

var (
	// ErrExpired means the signature verified but the token is past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid means the token is malformed or no trust anchor verified it.
	ErrInvalid = errors.New("invalid token")
)

// trustAnchor pairs an accepted signing method with its verification key.
// Anchors are tried in order until one verifies.
type trustAnchor struct {
	method jwt.SigningMethod
	key    interface{}
}

// Codec signs and verifies access tokens.
type Codec struct {
	anchors    []trustAnchor
	signMethod jwt.SigningMethod
	signKey    interface{}
	ttl        time.Duration
}

// NewCodec builds a Codec from configuration. The shared-secret HMAC
// anchor is always installed; an EdDSA anchor is added when an Ed25519
// key is configured, so provider-minted tokens verify too.
func NewCodec(cfg *config.Config) (*Codec, error) {
	c := &Codec{
		ttl: time.Duration(cfg.JWTExpiryHours) * time.Hour,
	}
	c.anchors = append(c.anchors, trustAnchor{jwt.SigningMethodHS256, []byte(cfg.JWTSecret)})

	if cfg.JWTPublicKey != "" {
		pub, err := jwt.ParseEdPublicKeyFromPEM([]byte(cfg.JWTPublicKey))
		if err != nil {
			return nil, fmt.Errorf("parse JWT_PUBLIC_KEY: %w", err)
		}
		c.anchors = append(c.anchors, trustAnchor{jwt.SigningMethodEdDSA, pub})
	}

	switch cfg.JWTAlgorithm {
	case "EdDSA":
		priv, err := jwt.ParseEdPrivateKeyFromPEM([]byte(cfg.JWTPrivateKey))
		if err != nil {
			return nil, fmt.Errorf("parse JWT_PRIVATE_KEY: %w", err)
		}
		c.signMethod = jwt.SigningMethodEdDSA
		c.signKey = priv
		// Self-issued tokens must verify even without JWT_PUBLIC_KEY:
		// derive the anchor from the signing key.
		if cfg.JWTPublicKey == "" {
			key, ok := priv.(ed25519.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("parse JWT_PRIVATE_KEY: not an Ed25519 key")
			}
			c.anchors = append(c.anchors, trustAnchor{jwt.SigningMethodEdDSA, key.Public()})
		}
	default:
		c.signMethod = jwt.SigningMethodHS256
		c.signKey = []byte(cfg.JWTSecret)
	}
	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs an access token for the given subject, expiring TTL from now.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"iat":  now.Unix(),
		"exp":  now.Add(c.ttl).Unix(),
		"type": "access",
	}
	return jwt.NewWithClaims(c.signMethod, claims).SignedString(c.signKey)
}

// Decode verifies the token against each trust anchor in order and
// returns its claims. An expired token that verified under some anchor
// yields ErrExpired; every other failure yields ErrInvalid.
func (c *Codec) Decode(tokenStr string) (jwt.MapClaims, error) {
	for _, anchor := range c.anchors {
		key := anchor.key
		parser := jwt.NewParser(jwt.WithValidMethods([]string{anchor.method.Alg()}))
		parsed, err := parser.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err == nil {
			if claims, ok := parsed.Claims.(jwt.MapClaims); ok {
				return claims, nil
			}
			return nil, ErrInvalid
		}
		// Claims are only validated after the signature checks out, so
		// an expiry failure is terminal: this anchor was the right one.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
	}
	return nil, ErrInvalid
}

// ExtractSubject decodes the token and returns its subject, or "" on
// any failure. Only optional paths use this; protected paths must go
// through Decode so expiry and malformation stay distinguishable.
func (c *Codec) ExtractSubject(tokenStr string) string {
	claims, err := c.Decode(tokenStr)
	if err != nil {
		return ""
	}
	return Subject(claims)
}

// Subject returns the principal identifier from a decoded claim set.
// The provider's tokens carry it under "user_id" rather than "sub".
func Subject(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid
	}
	return ""
}
