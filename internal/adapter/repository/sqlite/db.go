// Package sqlite stores balances in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS bank_balances (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    root_key    TEXT    NOT NULL,
    company     TEXT    NOT NULL,
    reseller    TEXT    NOT NULL,
    bank_code   TEXT    NOT NULL,
    bank_name   TEXT    NOT NULL,
    branch      TEXT    NOT NULL,
    account     TEXT    NOT NULL,
    balance     TEXT    NOT NULL DEFAULT '0',
    source_ip   TEXT    NOT NULL DEFAULT 'unknown',
    created_at  INTEGER NOT NULL,
    UNIQUE (root_key, bank_code, branch, account)
);
CREATE INDEX IF NOT EXISTS idx_bank_balances_created_at ON bank_balances (created_at DESC, id DESC);
`

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	if path == MemoryPath || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// IsRetryable reports whether a SQLite error is transient lock contention.
func IsRetryable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
