// Package postgres provides PostgreSQL-based storage for search run logs,
// matching the table layout shared with the wider ingestion stack.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB represents a PostgreSQL database connection.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB creates a new DB instance with the given connection string.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("pgx", db.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// createSchema creates the run tables if they don't exist. Other services
// write the same tables, so columns this service never fills (agent-mode
// bookkeeping) are kept in the schema.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS miner_runs (
			id UUID PRIMARY KEY,
			mode TEXT NOT NULL,
			base_query TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			markdown TEXT,
			related_queries TEXT[] NOT NULL DEFAULT '{}',
			failures TEXT[] NOT NULL DEFAULT '{}',
			chunk_count INTEGER NOT NULL DEFAULT 0,
			stored_chunks INTEGER,
			collection TEXT,
			embedding_models JSONB
		);

		CREATE TABLE IF NOT EXISTS miner_crawled_chunks (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES miner_runs(id) ON DELETE CASCADE,
			query TEXT NOT NULL,
			source_label TEXT,
			url TEXT,
			title TEXT,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			content_length INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_miner_crawled_chunks_run_id ON miner_crawled_chunks(run_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
