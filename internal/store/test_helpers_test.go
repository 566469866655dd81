package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/database"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// createTestStore opens a fresh SQLite database in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func createTestUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, Mobile: "555", PasswordHash: "hash", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createTestSweet(t *testing.T, s *Store, name, category string, price float64, qty int) *models.Sweet {
	t.Helper()
	sweet := &models.Sweet{Name: name, Category: category, Price: price, Quantity: qty}
	require.NoError(t, s.CreateSweet(context.Background(), sweet))
	return sweet
}

func countLedger(t *testing.T, s *Store, sweetID int64) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM purchase_history WHERE sweet_id = ?", sweetID).Scan(&n))
	return n
}
