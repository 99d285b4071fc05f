// Package postgres holds the schema shared by the PostgreSQL repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var statements = []string{
	`CREATE TABLE IF NOT EXISTS %[1]s.users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_name     TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		email         TEXT,
		role          TEXT NOT NULL DEFAULT 'user',
		auth_provider TEXT NOT NULL DEFAULT 'local',
		google_id     TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]s.rooms (
		room_code     TEXT PRIMARY KEY,
		project_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]s.submissions (
		id          UUID PRIMARY KEY,
		owner       TEXT NOT NULL,
		language_id INTEGER NOT NULL,
		source_code TEXT NOT NULL,
		result      JSONB,
		error       TEXT,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_owner_created_idx
		ON %[1]s.submissions (owner, created_at DESC)`,
}

// Migrate creates the tables used by the repositories when they are missing
func Migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(stmt, schema)); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint error
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Table returns the schema-qualified table name
func Table(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
