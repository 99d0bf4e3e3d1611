package storage_test

import (
	"testing"

	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/internal/storage/storagetest"
)

func TestMemoryStore_Contract(t *testing.T) {
	storagetest.Run(t, storage.NewMemoryStore())
}
