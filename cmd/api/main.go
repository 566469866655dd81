package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/01moynul/sweetshop-golang/internal/auth"
	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/database"
	"github.com/01moynul/sweetshop-golang/internal/handlers"
	"github.com/01moynul/sweetshop-golang/internal/ratelimit"
	"github.com/01moynul/sweetshop-golang/internal/routes"
	"github.com/01moynul/sweetshop-golang/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file, relying on system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Database Connection ---
	db, err := database.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. --- Seed the admin and the starter catalog ---
	if err := database.SeedAdmin(ctx, db, cfg.Admin); err != nil {
		return err
	}
	if cfg.SeedCatalog {
		if _, err := database.SeedCatalog(ctx, db); err != nil {
			return err
		}
	}

	// 3. --- Services ---
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	st := store.New(db)
	authService, err := auth.NewService(st, tokens)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := ratelimit.New(ctx, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// --- Router Setup ---
	app := handlers.New(st, authService, cfg, logger)
	router := routes.SetupRouter(app, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting Sweet Shop API server", "port", cfg.Port, "api", cfg.BaseURL+"/api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
