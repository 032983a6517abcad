package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/file"
)

func TestBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "invoicer.db")
	backend, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	t.Run("unknown collection reads as empty", func(t *testing.T) {
		data, err := backend.Read(ctx, "clients")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("expected empty document, got %q", data)
		}
	})

	t.Run("write then read returns the document", func(t *testing.T) {
		if err := backend.Write(ctx, "invoices", []byte(`[{"id":"1"}]`)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		data, err := backend.Read(ctx, "invoices")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != `[{"id":"1"}]` {
			t.Errorf("document mismatch: got %s", data)
		}
	})

	t.Run("write replaces previous document", func(t *testing.T) {
		if err := backend.Write(ctx, "invoices", []byte(`[]`)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		data, err := backend.Read(ctx, "invoices")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != `[]` {
			t.Errorf("expected replaced document, got %s", data)
		}
	})

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created: %v", err)
	}
}

func TestBackend_StoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "invoicer.db")
	ctx := context.Background()

	backend, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}

	clients := storage.NewClientStore()
	if err := clients.Initialize(ctx, backend); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	added, err := clients.Add(ctx, models.Client{
		UserID: "user1",
		Email:  "billing@acme.test",
		Name:   "Wile",
		CompanyDetails: models.CompanyDetails{
			Name:      "Acme",
			VATNumber: "VAT-1",
			RegNumber: "REG-1",
		},
		CreatedAt: 1700000000000,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	backend.Close()

	// Reopen and load into a fresh store
	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen backend: %v", err)
	}
	defer reopened.Close()

	fresh := storage.NewClientStore()
	if err := fresh.Initialize(ctx, reopened); err != nil {
		t.Fatalf("Initialize after reopen failed: %v", err)
	}
	got, ok := fresh.GetByID(added.ID)
	if !ok {
		t.Fatalf("client %s not found after reopen", added.ID)
	}
	if got.Email != added.Email || got.CompanyDetails != added.CompanyDetails {
		t.Errorf("client mismatch: got %+v, want %+v", got, added)
	}
}

func TestBackend_Import(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte(`[{"id":"u1","email":"a@b.c"}]`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	backend, err := New(filepath.Join(t.TempDir(), "invoicer.db"))
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	defer backend.Close()

	if err := backend.Import(ctx, file.New(dir), "users"); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	users := storage.NewUserStore()
	if err := users.Initialize(ctx, backend); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, ok := users.GetByEmail("a@b.c"); !ok {
		t.Error("expected imported user to be found by email")
	}

	if err := backend.Import(ctx, file.New(dir), "clients"); err == nil {
		t.Error("expected error importing a missing file")
	}
}
