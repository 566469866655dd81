package handlers

import (
	"log/slog"

	"github.com/01moynul/sweetshop-golang/internal/auth"
	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store  *store.Store
	Auth   *auth.Service
	Config *config.Config
	Logger *slog.Logger
}

func New(st *store.Store, authService *auth.Service, cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{Store: st, Auth: authService, Config: cfg, Logger: logger}
}
