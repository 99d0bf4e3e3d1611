// Package keyring keeps backend secrets in the OS keyring so they never land
// in sadhana.toml.
package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/sadhana/internal/constants"
)

// Accounts under the sadhana keyring service.
const (
	AccountPostgres = constants.DefaultKeyringUser
	AccountRedis    = "redis-password"
)

var (
	// ErrNotFound is returned when nothing is stored for an account.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored for account.
func Get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account, replacing any previous value.
func Set(account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret for account.
func Delete(account string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// ConnectionString resolves the Postgres connection string:
// $SADHANA_DB_CONNECTION first, then the keyring.
func ConnectionString() (string, error) {
	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return connStr, nil
	}
	return Get(AccountPostgres)
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
