package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/invoicer/internal/observability/metrics"
)

// Record is the capability a type needs to live in a Collection: an ID, an
// owning user, and a way to stamp a freshly generated ID.
type Record[T any] interface {
	RecordID() string
	OwnerID() string
	WithID(id string) T
}

// cloner is implemented by records holding reference fields (maps, pointers)
// that must not be shared between the store and its callers.
type cloner[T any] interface {
	Clone() T
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	newID       func() string
	autoPersist bool
}

// WithLogger sets the logger used by the collection.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIDGenerator replaces the UUID generator. Generated IDs must be unique
// within the process.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithoutAutoPersist keeps mutations in memory only. Persist can still be
// called explicitly.
func WithoutAutoPersist() Option {
	return func(o *options) { o.autoPersist = false }
}

// Collection is an ordered, in-memory set of records of one type backed by a
// single encoded document in a Backend.
//
// All mutations hold the write lock for the whole check, append and persist
// sequence, so uniqueness checks and writes are serialized per collection.
type Collection[T Record[T]] struct {
	name string
	opts options

	// unique, when set, is checked against every other record on add and
	// modify. It returns the conflict error for candidate, or nil.
	unique func(existing, candidate T) error

	mu          sync.RWMutex
	records     []T
	backend     Backend
	autoPersist bool
}

// NewCollection creates an empty collection persisted under name.
// Until Initialize is called it has no backend and Persist is a no-op.
func NewCollection[T Record[T]](name string, opts ...Option) *Collection[T] {
	o := options{
		logger:      slog.Default(),
		newID:       func() string { return uuid.New().String() },
		autoPersist: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		name:        name,
		opts:        o,
		records:     []T{},
		autoPersist: o.autoPersist,
	}
}

// Name returns the name the collection is persisted under.
func (c *Collection[T]) Name() string {
	return c.name
}

// Initialize loads the collection from backend and makes backend the target
// of subsequent writes. Calling it again re-reads the durable copy, dropping
// the current in-memory state. On failure the previous state is kept.
func (c *Collection[T]) Initialize(ctx context.Context, backend Backend) error {
	data, err := backend.Read(ctx, c.name)
	if err != nil {
		metrics.ObserveOperation(c.name, "init", "io")
		return fmt.Errorf("%w: read %s: %w", ErrIO, c.name, err)
	}

	records, err := decode[T](data)
	if err != nil {
		metrics.ObserveOperation(c.name, "init", "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, c.name, err)
	}

	c.mu.Lock()
	c.records = records
	c.backend = backend
	c.mu.Unlock()

	metrics.ObserveOperation(c.name, "init", "ok")
	metrics.SetRecords(c.name, len(records))
	c.opts.logger.Debug("collection loaded", "collection", c.name, "records", len(records))
	return nil
}

// SetAutoPersist toggles writing to the backend after each mutation.
func (c *Collection[T]) SetAutoPersist(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoPersist = enabled
}

// Len returns the number of records in memory.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// All returns a copy of the collection in load order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.records))
	for i, r := range c.records {
		out[i] = clone(r)
	}
	return out
}

// GetByID returns the first record with the given ID.
func (c *Collection[T]) GetByID(id string) (T, bool) {
	return c.Find(func(r T) bool { return r.RecordID() == id })
}

// Find returns the first record matching match.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if match(r) {
			return clone(r), true
		}
	}
	var zero T
	return zero, false
}

// GetByOwner returns the records owned by userID, in collection order.
func (c *Collection[T]) GetByOwner(userID string) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0)
	for _, r := range c.records {
		if r.OwnerID() == userID {
			out = append(out, clone(r))
		}
	}
	return out
}

// Add stores rec under a newly generated ID and returns the stored record.
// A record violating the store's uniqueness rule against any existing record
// is rejected with the conflict error and nothing changes.
//
// If the record was appended but the write to the backend failed, the stored
// record is returned together with an ErrIO error.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec = clone(rec)
	for _, existing := range c.records {
		if err := c.conflictLocked(existing, rec); err != nil {
			metrics.ObserveOperation(c.name, "add", Kind(err))
			var zero T
			return zero, err
		}
	}

	stored := rec.WithID(c.opts.newID())
	c.records = append(c.records, stored)
	metrics.SetRecords(c.name, len(c.records))

	err := c.autoPersistLocked(ctx)
	metrics.ObserveOperation(c.name, "add", Kind(err))
	return clone(stored), err
}

// Update replaces the record with the same ID as rec, keeping its position.
func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	return c.Modify(ctx, rec.RecordID(), func(cur *T) { *cur = rec })
}

// Modify applies fn to the record with the given ID in place and returns the
// result. The record keeps its ID and position whatever fn does.
//
// The modified record must still satisfy the store's uniqueness rule against
// every other record; otherwise the conflict error is returned and the record
// is left unchanged.
func (c *Collection[T]) Modify(ctx context.Context, id string, fn func(*T)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.records, func(r T) bool { return r.RecordID() == id })
	if idx < 0 {
		metrics.ObserveOperation(c.name, "update", "not_found")
		var zero T
		return zero, fmt.Errorf("%w: %s record %q", ErrNotFound, c.name, id)
	}

	updated := clone(c.records[idx])
	fn(&updated)
	updated = clone(updated.WithID(id))

	for i, existing := range c.records {
		if i == idx {
			continue
		}
		if err := c.conflictLocked(existing, updated); err != nil {
			metrics.ObserveOperation(c.name, "update", Kind(err))
			var zero T
			return zero, err
		}
	}
	c.records[idx] = updated

	err := c.autoPersistLocked(ctx)
	metrics.ObserveOperation(c.name, "update", Kind(err))
	return clone(updated), err
}

func (c *Collection[T]) conflictLocked(existing, candidate T) error {
	if c.unique == nil {
		return nil
	}
	return c.unique(existing, candidate)
}

func clone[T any](r T) T {
	if cl, ok := any(r).(cloner[T]); ok {
		return cl.Clone()
	}
	return r
}

// Persist writes the whole collection to the backend. It is a no-op for a
// collection that was never initialized.
func (c *Collection[T]) Persist(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked(ctx)
}

func (c *Collection[T]) autoPersistLocked(ctx context.Context) error {
	if !c.autoPersist {
		return nil
	}
	return c.persistLocked(ctx)
}

func (c *Collection[T]) persistLocked(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}

	data, err := encode(c.records)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, c.name, err)
	}

	start := time.Now()
	if err := c.backend.Write(ctx, c.name, data); err != nil {
		c.opts.logger.Error("failed to persist collection", "collection", c.name, "error", err)
		return fmt.Errorf("%w: write %s: %w", ErrIO, c.name, err)
	}
	metrics.ObservePersist(c.name, time.Since(start))
	return nil
}

// encode renders records as an indented JSON array, the format of the data files.
func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.MarshalIndent(records, "", "    ")
}

func decode[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
