package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// memBackend is an in-memory storage.Backend with injectable failures.
type memBackend struct {
	mu       sync.Mutex
	docs     map[string][]byte
	readErr  error
	writeErr error
	writes   int
}

func newMemBackend() *memBackend {
	return &memBackend{docs: map[string][]byte{}}
}

func (m *memBackend) Read(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	doc, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("no document %q", name)
	}
	return doc, nil
}

func (m *memBackend) Write(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.docs[name] = append([]byte(nil), data...)
	m.writes++
	return nil
}

var errDiskFull = errors.New("disk full")

// sequentialIDs returns a generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
