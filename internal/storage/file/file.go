// Package file stores collections as JSON files, one per collection, in a
// data directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmynk/invoicer/internal/storage"
)

// Extension is appended to a collection name to form its file name.
const Extension = ".json"

var _ storage.Backend = (*Backend)(nil)

// Backend reads and writes <dir>/<collection>.json.
type Backend struct {
	dir string
}

// New returns a backend rooted at dir. The directory is not created.
func New(dir string) *Backend {
	return &Backend{dir: dir}
}

// Dir returns the data directory.
func (b *Backend) Dir() string {
	return b.dir
}

// Path returns the file a collection is stored in.
func (b *Backend) Path(name string) string {
	return filepath.Join(b.dir, name+Extension)
}

// Read returns the file content. A missing file is an error.
func (b *Backend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return data, nil
}

// Write overwrites the file with data.
func (b *Backend) Write(_ context.Context, name string, data []byte) error {
	if err := os.WriteFile(b.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	return nil
}

// Ensure creates dir and an empty collection file for every name that has
// none yet. Existing files are left alone. It returns the files it created.
func Ensure(dir string, names ...string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	b := New(dir)
	var created []string
	for _, name := range names {
		path := b.Path(name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return created, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// CopyFixtures overwrites the collection files in dir with the same-named
// files from fixturesDir. Files in fixturesDir that are not collection files
// are ignored. It returns the names of the collections it replaced.
func CopyFixtures(fixturesDir, dir string) ([]string, error) {
	entries, err := os.ReadDir(fixturesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var replaced []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fixturesDir, entry.Name()))
		if err != nil {
			return replaced, fmt.Errorf("failed to read fixture %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, entry.Name()), data, 0o644); err != nil {
			return replaced, fmt.Errorf("failed to write %s: %w", entry.Name(), err)
		}
		replaced = append(replaced, entry.Name()[:len(entry.Name())-len(Extension)])
	}
	return replaced, nil
}
