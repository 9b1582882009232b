package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the pipeline tables. Serialized across concurrent
// CLI/worker startups with an advisory lock.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_types (
	id TEXT PRIMARY KEY,
	document_type TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	validation_rules JSONB
);

CREATE TABLE IF NOT EXISTS sources (
	id TEXT PRIMARY KEY,
	drive_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	content TEXT,
	extracted BOOLEAN NOT NULL DEFAULT FALSE,
	document_type_id TEXT REFERENCES document_types(id),
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS expert_documents (
	id TEXT PRIMARY KEY,
	source_id TEXT NOT NULL UNIQUE REFERENCES sources(id),
	document_type_id TEXT NOT NULL,
	raw_content TEXT NOT NULL,
	word_count INTEGER NOT NULL DEFAULT 0,
	language TEXT NOT NULL DEFAULT 'unknown',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	attempts INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_roots (
	id TEXT PRIMARY KEY,
	folder_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sources_extracted ON sources(extracted) WHERE extracted = FALSE;
CREATE INDEX IF NOT EXISTS idx_sources_unclassified ON sources(updated_at) WHERE document_type_id IS NULL;
CREATE INDEX IF NOT EXISTS idx_expert_documents_status ON expert_documents(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
