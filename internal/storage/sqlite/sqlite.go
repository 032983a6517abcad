// Package sqlite provides a SQLite-backed implementation of storage.Backend.
//
// Each collection is kept as one encoded document in the collections table,
// so a persist replaces the whole collection in a single statement.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/invoicer/internal/storage"
)

// Ensure Backend implements storage.Backend
var _ storage.Backend = (*Backend)(nil)

// Backend implements storage.Backend using SQLite.
type Backend struct {
	db *sql.DB
}

// New opens the database at dbPath, creating parent directories and running
// migrations.
func New(dbPath string) (*Backend, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Backend{db: db}, nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Read returns the stored document of a collection. A collection that was
// never written reads as empty.
func (b *Backend) Read(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx,
		"SELECT body FROM collections WHERE name = ?",
		name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	return []byte(body), nil
}

// Write replaces the stored document of a collection.
func (b *Backend) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO collections (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

// Import copies a collection document into the database, typically from the
// JSON data files.
func (b *Backend) Import(ctx context.Context, src storage.Backend, names ...string) error {
	for _, name := range names {
		data, err := src.Read(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", name, err)
		}
		if err := b.Write(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}
