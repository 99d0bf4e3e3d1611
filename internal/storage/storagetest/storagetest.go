// Package storagetest holds behaviour checks shared by every storage.Provider.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/sadhana/internal/storage"
)

// Run exercises p against the Provider contract. p must be initialized and empty.
func Run(t *testing.T, p storage.Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("read missing key", func(t *testing.T) {
		_, err := p.Read(ctx, "japa_history")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("write then read", func(t *testing.T) {
		payload := []byte(`[{"malas":3,"date":"2024-03-10T06:00:00.000Z"}]`)
		if err := p.Write(ctx, "japa_history", payload); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		got, err := p.Read(ctx, "japa_history")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(got) != string(payload) {
			t.Errorf("read %s, want %s", got, payload)
		}
	})

	t.Run("overwrite replaces whole value", func(t *testing.T) {
		if err := p.Write(ctx, "goals_list", []byte(`[{"id":"a"},{"id":"b"}]`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if err := p.Write(ctx, "goals_list", []byte(`[]`)); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}
		got, err := p.Read(ctx, "goals_list")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(got) != `[]` {
			t.Errorf("read %s, want []", got)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if err := p.Write(ctx, "gratitude_notes", []byte(`["n"]`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if err := p.Write(ctx, "recitation_log", []byte(`["r"]`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		got, err := p.Read(ctx, "gratitude_notes")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(got) != `["n"]` {
			t.Errorf("read %s, want [\"n\"]", got)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := p.Remove(ctx, "gratitude_notes"); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}
		if _, err := p.Read(ctx, "gratitude_notes"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after remove, got %v", err)
		}
		if err := p.Remove(ctx, "gratitude_notes"); err != nil {
			t.Errorf("removing a missing key should succeed, got %v", err)
		}
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		if err := p.Write(ctx, "recitation_log", []byte(`[1]`)); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		got, err := p.Read(ctx, "recitation_log")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		got[1] = '9'
		again, err := p.Read(ctx, "recitation_log")
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(again) != `[1]` {
			t.Errorf("mutating a read result changed stored data: %s", again)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := p.Write(cctx, "japa_history", []byte(`[]`)); err == nil {
			t.Error("expected error writing with a cancelled context")
		}
	})
}
