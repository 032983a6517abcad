// Package storage provides the record stores of the invoicing backend.
//
// Each store keeps one entity collection in memory, in load/insertion order,
// and writes the whole collection back to a Backend after every mutation.
// The in-memory copy is the source of truth between writes; a failed write
// is reported but never rolls back the in-memory change.
package storage

import "context"

// Backend persists encoded collections by name.
// This abstraction allows swapping the durable copy (JSON files, SQLite)
// without changing the stores.
type Backend interface {
	// Read returns the encoded collection. Empty content means an empty collection.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the encoded collection.
	Write(ctx context.Context, name string, data []byte) error
}
