package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Read when no payload exists for a key.
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load before `sadhana init` has run.
	ErrNotInitialized = errors.New("storage not initialized, run 'sadhana init' first")
)

// Provider is a durable blob store addressed by collection key. Each key holds
// one whole serialized collection; there are no partial reads or writes.
//
// A successful Write must be durable before it returns.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by SQL backends that track a migration version.
type SchemaReporter interface {
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}
