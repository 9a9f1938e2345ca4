// Prints a signed access token for local testing. Honors JWT_SECRET,
// JWT_ALGORITHM and friends; set SUBJECT to pick the user id and
// EXPIRED=1 to mint an already-expired token for exercising 401 paths.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/config"
	"taskboard/internal/token"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "change-me-change-me-change-me-yes"
	}

	subject := os.Getenv("SUBJECT")
	if subject == "" {
		subject = "test-user"
	}

	if os.Getenv("EXPIRED") == "1" {
		now := time.Now().UTC().Add(-48 * time.Hour)
		claims := jwt.MapClaims{
			"sub":  subject,
			"iat":  now.Unix(),
			"exp":  now.Add(time.Hour).Unix(),
			"type": "access",
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			panic(err)
		}
		fmt.Println(signed)
		return
	}

	codec, err := token.NewCodec(cfg)
	if err != nil {
		panic(err)
	}
	signed, err := codec.Issue(subject)
	if err != nil {
		panic(err)
	}
	fmt.Println(signed)
}
