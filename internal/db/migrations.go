package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const schemaVersionKey = "schema_version"

// migrate runs the migrations not yet recorded in meta
func (db *DB) migrate(migrations []string) error {
	if _, err := db.Exec(migrationCreateMeta); err != nil {
		return fmt.Errorf("failed to create meta table: %w", err)
	}

	ctx := context.Background()
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	_, err = db.ExecContext(ctx, db.bind(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		schemaVersionKey, strconv.Itoa(len(migrations)))
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// SchemaVersion returns how many migrations have been applied
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var value string
	err := db.QueryRowContext(ctx, db.bind(`SELECT value FROM meta WHERE key = ?`), schemaVersionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", value, err)
	}
	return version, nil
}

// bind rewrites ? placeholders to $N for postgres
func (db *DB) bind(query string) string {
	if !db.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var sqliteMigrations = []string{
	migrationCreateKV,
}

var postgresMigrations = []string{
	migrationCreateKVPostgres,
}

const migrationCreateKV = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationCreateKVPostgres = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BYTEA NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationCreateMeta = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT
);
`
