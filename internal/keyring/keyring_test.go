package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/sadhana/internal/constants"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	tests := []struct {
		account string
		secret  string
	}{
		{AccountPostgres, "postgres://practice@localhost:5432/sadhana?sslmode=disable"},
		{AccountRedis, "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			if err := Set(tt.account, tt.secret); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(tt.account)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != tt.secret {
				t.Errorf("Get() = %q, want %q", got, tt.secret)
			}
		})
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(AccountPostgres, ""); err == nil {
		t.Error("Set with empty secret should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_, err := Get(AccountRedis)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(AccountPostgres, "postgres://practice@localhost/sadhana"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(AccountPostgres); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(AccountPostgres); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete, Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(AccountPostgres); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestConnectionString(t *testing.T) {
	gokeyring.MockInit()

	t.Run("keyring", func(t *testing.T) {
		t.Setenv(constants.EnvDBConnection, "")
		if err := Set(AccountPostgres, "postgres://from-keyring@localhost/db"); err != nil {
			t.Fatal(err)
		}
		got, err := ConnectionString()
		if err != nil || got != "postgres://from-keyring@localhost/db" {
			t.Errorf("ConnectionString() = %q, %v", got, err)
		}
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(constants.EnvDBConnection, "postgres://from-env@localhost/db")
		got, err := ConnectionString()
		if err != nil || got != "postgres://from-env@localhost/db" {
			t.Errorf("ConnectionString() = %q, %v", got, err)
		}
	})
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
