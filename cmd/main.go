package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"taskboard/internal/config"
	"taskboard/internal/controller"
	"taskboard/internal/database"
	"taskboard/internal/repository"
	"taskboard/internal/routes"
	"taskboard/internal/service"
	"taskboard/internal/token"
	"taskboard/pkg/logger"
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Database not available", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}

	codec, err := token.NewCodec(cfg)
	if err != nil {
		logger.Error(ctx, "Token codec init failed", "error", err)
		os.Exit(1)
	}

	users := repository.NewPostgresUserRepository(db)
	tasks := repository.NewPostgresTaskRepository(db)
	auth := service.NewAuth(users, codec)

	router := routes.Router(codec,
		&controller.AuthController{Auth: auth},
		&controller.TaskController{Tasks: tasks},
		&controller.HealthController{DB: db},
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening",
			"port", cfg.HTTPPort,
			"auth_provider", cfg.AuthProviderURL,
			"jwt_algorithm", cfg.JWTAlgorithm)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}

// loadEnvFile reads a .env file and sets env vars (only if not already set).
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
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
