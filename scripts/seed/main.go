// Seed creates a demo account plus a batch of tasks for local testing.
// Run from project root: go run ./scripts/seed
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/models"
	"taskboard/internal/password"
	"taskboard/internal/repository"
)

const (
	demoEmail    = "demo@taskboard.local"
	demoPassword = "demo-password-1"
	taskCount    = 25
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set")
		os.Exit(1)
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	users := repository.NewPostgresUserRepository(db)
	tasks := repository.NewPostgresTaskRepository(db)

	user, err := users.GetByEmail(ctx, demoEmail)
	if errors.Is(err, repository.ErrNotFound) {
		hashed, err := password.Hash(demoPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Hash failed:", err)
			os.Exit(1)
		}
		name := "Demo User"
		now := time.Now().UTC()
		user = &models.User{
			ID:             "seed-user",
			Email:          demoEmail,
			HashedPassword: hashed,
			Name:           &name,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := users.Create(ctx, user); err != nil {
			fmt.Fprintln(os.Stderr, "Create user failed:", err)
			os.Exit(1)
		}
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "Lookup failed:", err)
		os.Exit(1)
	}

	start := time.Now()
	for n := 1; n <= taskCount; n++ {
		desc := fmt.Sprintf("Description for task %d", n)
		task := &models.Task{
			Title:       fmt.Sprintf("Task %d", n),
			Description: &desc,
			UserID:      user.ID,
		}
		if err := tasks.Create(ctx, task); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Done: %d tasks for %s in %v\n", taskCount, demoEmail, time.Since(start))
}

func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		val = strings.Trim(val, `"'`)
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
