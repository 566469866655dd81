package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/config"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDB_CreatesTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"users", "sweets", "purchase_history"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestApplySchema_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, ApplySchema(context.Background(), db, config.DriverSQLite))
	}
}

func TestOpenDB_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestSchema_RejectsNegativeQuantity(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec("INSERT INTO sweets (name, category, price, quantity) VALUES ('Bad', 'X', 1, -1)")
	assert.Error(t, err)
}

func TestSeedAdmin_OnlyOnce(t *testing.T) {
	db := openTestDB(t)
	admin := config.AdminConfig{Name: "Admin User", Email: "admin@shop.com", Password: "admin", Mobile: "1234567890"}
	ctx := context.Background()

	require.NoError(t, SeedAdmin(ctx, db, admin))
	require.NoError(t, SeedAdmin(ctx, db, admin))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", admin.Email).Scan(&count))
	assert.Equal(t, 1, count)

	var role, hash string
	require.NoError(t, db.QueryRow("SELECT role, password_hash FROM users WHERE email = ?", admin.Email).Scan(&role, &hash))
	assert.Equal(t, models.RoleAdmin, role)

	p := models.Password{Hash: hash}
	ok, err := p.Matches("admin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedAdmin_NormalizesEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SeedAdmin(ctx, db, config.AdminConfig{Name: "Boss", Email: "  Boss@Shop.com ", Password: "admin"}))
	require.NoError(t, SeedAdmin(ctx, db, config.AdminConfig{Name: "Boss", Email: "boss@shop.com", Password: "admin"}))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)

	var email string
	require.NoError(t, db.QueryRow("SELECT email FROM users").Scan(&email))
	assert.Equal(t, "boss@shop.com", email)
}

func TestSeedCatalog_OnlyWhenEmpty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := SeedCatalog(ctx, db)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	n, err = SeedCatalog(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadSeedCatalog_Invalid(t *testing.T) {
	_, err := loadSeedCatalog([]byte("sweets:\n  - name: Broken\n    price: -1\n"))
	assert.Error(t, err)

	_, err = loadSeedCatalog([]byte("sweets: ["))
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- comment; with semicolon\nCREATE TABLE a (x INT);\n\nCREATE TABLE b (y INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, stmts)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:shop.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", sqliteDSN("shop.db"))
	assert.Equal(t, "file:shop.db?mode=ro", sqliteDSN("file:shop.db?mode=ro"))
}
