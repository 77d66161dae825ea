package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsurePublishSchema creates the publishing tables and the pgcrypto extension
// used for token encryption. Safe to call at startup.
func EnsurePublishSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			theme TEXT NOT NULL DEFAULT '',
			description TEXT,
			platform TEXT NOT NULL DEFAULT 'both',
			duration INT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			project_id TEXT NOT NULL REFERENCES projects(id),
			script TEXT NOT NULL DEFAULT '',
			video_url TEXT,
			platforms TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'generating',
			scheduled_for TIMESTAMPTZ,
			published_at TIMESTAMPTZ,
			metadata JSONB,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_due ON videos (status, scheduled_for)`,
		`CREATE TABLE IF NOT EXISTS platform_connections (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			user_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			access_token_encrypted BYTEA NOT NULL,
			refresh_token_encrypted BYTEA,
			expires_at TIMESTAMPTZ,
			account_id TEXT,
			account_name TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, platform)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring publish schema failed: %w", err)
		}
	}

	// Columns added after the initial schema shipped
	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"videos", "error_message", "ALTER TABLE videos ADD COLUMN error_message TEXT"},
		{"platform_connections", "account_name", "ALTER TABLE platform_connections ADD COLUMN account_name TEXT"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
