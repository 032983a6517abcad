// Package app assembles the stores from configuration. It is shared by the
// server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/file"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
)

// Collections lists every persisted collection.
var Collections = []string{storage.UsersCollection, storage.ClientsCollection, storage.InvoicesCollection}

// OpenBackend returns the backend selected by cfg and the function that
// releases it.
func OpenBackend(cfg *config.Config) (storage.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return file.New(cfg.DataDir), func() error { return nil }, nil
	case config.BackendSQLite:
		b, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// OpenStores opens the configured backend and loads every store from it.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...storage.Option) (*storage.Stores, func() error, error) {
	backend, closeBackend, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	stores, err := storage.Open(ctx, backend, logger, opts...)
	if err != nil {
		closeBackend()
		return nil, nil, err
	}
	return stores, closeBackend, nil
}
