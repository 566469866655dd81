package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/01moynul/sweetshop-golang/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// OpenDB initializes the primary connection pool from configuration and
// makes sure the schema exists.
func OpenDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := OpenDBWithDSN(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := ApplySchema(context.Background(), db, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDBWithDSN creates and configures a connection pool for the given driver.
func OpenDBWithDSN(driver, dsn string) (*sql.DB, error) {
	if driver == config.DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		// SQLite allows one writer at a time; a single connection also keeps
		// per-connection pragmas in effect.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	slog.Info("database connection pool established", "driver", driver)
	return db, nil
}

// sqliteDSN turns a bare file path into a DSN that enables foreign keys,
// a busy timeout and WAL journaling on every new connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// ApplySchema creates the shop tables if they do not exist. It is idempotent.
func ApplySchema(ctx context.Context, db *sql.DB, driver string) error {
	raw, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}

	for _, stmt := range splitStatements(string(raw)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// splitStatements drops "--" comment lines and splits on ";" so each
// statement can be executed on its own (the MySQL driver rejects
// multi-statement strings by default).
func splitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
