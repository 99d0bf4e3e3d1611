package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/keyring"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/internal/storage/postgres"
	"github.com/julianstephens/sadhana/internal/storage/redis"
	"github.com/julianstephens/sadhana/internal/storage/sqlite"
)

// OpenBackend builds the configured storage provider. It does not connect;
// callers run Init or Load.
func OpenBackend(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSON, "":
		dir, err := cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		return storage.NewJSONStore(dir), nil

	case config.BackendSQLite:
		path, err := cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil

	case config.BackendPostgres:
		connStr, err := postgresConnString(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil

	case config.BackendRedis:
		return redis.New(redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			DB:       cfg.Storage.RedisDB,
			Password: redisPassword(),
		}), nil

	case config.BackendMemory:
		logger.Warn("using the in-memory backend, nothing will be persisted")
		return storage.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// postgresConnString prefers storage.dsn, then $SADHANA_DB_CONNECTION, then
// the keyring. Passwords are never accepted inline.
func postgresConnString(cfg *config.Config) (string, error) {
	connStr := cfg.Storage.DSN
	if connStr == "" {
		var err error
		connStr, err = keyring.ConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.New("no PostgreSQL connection string: set storage.dsn, $SADHANA_DB_CONNECTION or run 'sadhana keyring set'")
		}
		if err != nil {
			return "", err
		}
	}
	if err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", fmt.Errorf("%w: use ~/.pgpass or PGPASSWORD for the password", err)
		}
		return "", err
	}
	return connStr, nil
}

// redisPassword reads the optional Redis password from the keyring.
func redisPassword() string {
	password, err := keyring.Get(keyring.AccountRedis)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("could not read redis password from keyring", "error", err)
		}
		return ""
	}
	return password
}
