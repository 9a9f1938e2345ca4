package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds application configuration from environment. It is loaded
// once in main and passed by reference to every component that needs it.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	DBPoolSize  int

	JWTSecret      string
	JWTAlgorithm   string // HS256 or EdDSA
	JWTPrivateKey  string // PEM-encoded Ed25519 private key (EdDSA signing)
	JWTPublicKey   string // PEM-encoded Ed25519 public key (EdDSA verification)
	JWTExpiryHours int

	// AuthProviderURL is the base URL of the external identity provider
	// whose tokens this service also accepts.
	AuthProviderURL string
}

// minSecretLen is the minimum JWT secret length considered valid.
const minSecretLen = 32

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPoolSize:      getIntEnv("DB_POOL_SIZE", 50),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTAlgorithm:    getEnv("JWT_ALGORITHM", "HS256"),
		JWTPrivateKey:   os.Getenv("JWT_PRIVATE_KEY"),
		JWTPublicKey:    os.Getenv("JWT_PUBLIC_KEY"),
		JWTExpiryHours:  getIntEnv("JWT_EXPIRY_HOURS", 24),
		AuthProviderURL: getEnv("AUTH_PROVIDER_URL", "http://localhost:3000"),
	}
}

// Validate reports configuration errors that should stop startup.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if len(c.JWTSecret) < minSecretLen {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.JWTAlgorithm {
	case "HS256":
	case "EdDSA":
		if c.JWTPrivateKey == "" {
			return errors.New("JWT_PRIVATE_KEY is required for EdDSA signing")
		}
	default:
		return errors.New("JWT_ALGORITHM must be HS256 or EdDSA")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
