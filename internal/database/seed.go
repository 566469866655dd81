package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

//go:embed seed/sweets.yaml
var seedCatalogYAML []byte

type seedCatalog struct {
	Sweets []seedSweet `yaml:"sweets"`
}

type seedSweet struct {
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Quantity    int     `yaml:"quantity"`
	Image       string  `yaml:"image"`
	Description string  `yaml:"description"`
}

// SeedAdmin provisions the bootstrap administrator once. The admin role is
// written explicitly here; no other code path grants it.
func SeedAdmin(ctx context.Context, db *sql.DB, admin config.AdminConfig) error {
	email := models.NormalizeEmail(admin.Email)

	var id int64
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	var password models.Password
	if err := password.Set(admin.Password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (name, email, mobile, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		admin.Name, email, admin.Mobile, password.Hash, models.RoleAdmin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	slog.Info("seeded admin user", "email", email)
	return nil
}

// SeedCatalog fills an empty sweets table from the embedded catalog.
func SeedCatalog(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sweets").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sweets: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	sweets, err := loadSeedCatalog(seedCatalogYAML)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, s := range sweets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sweets (name, category, price, quantity, image, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.Name, s.Category, s.Price, s.Quantity, nullString(s.Image), nullString(s.Description))
		if err != nil {
			return 0, fmt.Errorf("failed to seed sweet %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	slog.Info("seeded sweets catalog", "count", len(sweets))
	return len(sweets), nil
}

func loadSeedCatalog(raw []byte) ([]seedSweet, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	for i, s := range catalog.Sweets {
		if s.Name == "" || s.Category == "" || s.Price < 0 || s.Quantity < 0 {
			return nil, fmt.Errorf("seed catalog entry %d (%q) is invalid", i, s.Name)
		}
	}
	return catalog.Sweets, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
