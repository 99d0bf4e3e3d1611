package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/internal/storage/storagetest"
)

func setupJSONStore(t *testing.T) (*storage.JSONStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	s := storage.NewJSONStore(dir)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init json store: %v", err)
	}
	return s, dir
}

func TestJSONStore_Contract(t *testing.T) {
	s, _ := setupJSONStore(t)
	storagetest.Run(t, s)
}

func TestJSONStore_LoadBeforeInit(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestJSONStore_FileLayout(t *testing.T) {
	s, dir := setupJSONStore(t)
	ctx := context.Background()

	if err := s.Write(ctx, "japa_history", []byte(`[]`)); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "japa_history.json"))
	if err != nil {
		t.Fatalf("expected collection file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d entries", len(entries))
	}
}
