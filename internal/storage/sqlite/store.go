package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/migration"
	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/migrations"
)

// Store keeps every collection as one row of the collections table in a
// single SQLite file.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn opens in WAL mode with full fsync so a committed upsert survives power loss.
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite serializes anyway and this avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(context.Background(), func(msg string) {
		logger.Info(msg)
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(context.Background())
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

// SchemaStatus reports the applied and latest bundled migration versions.
func (s *Store) SchemaStatus(ctx context.Context) (int, int, error) {
	if s.db == nil {
		return 0, 0, storage.ErrNotInitialized
	}
	r, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	st, err := r.Status(ctx)
	if err != nil {
		return 0, 0, err
	}
	return st.Current, st.Latest, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM collections WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
