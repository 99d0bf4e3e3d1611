// Package clitest builds command contexts over an in-memory store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/storage"
)

// Now is the fixed clock of every test context: 2024-03-10 12:00 UTC.
var Now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// Env is a test context plus its captured output.
type Env struct {
	Ctx     *cli.Context
	Out     *bytes.Buffer
	Prompts []string
	// Answer is returned by every confirmation prompt.
	Answer bool
	// SecretAnswer is returned by every secret prompt.
	SecretAnswer string
}

// New returns a context backed by a memory store whose data dir is a temp dir.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := config.Defaults()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Storage.DataDir = t.TempDir()

	ctx, err := cli.NewContext(&cfg, storage.NewMemoryStore())
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}

	env := &Env{Out: &bytes.Buffer{}}
	ctx.Out = env.Out
	ctx.Now = func() time.Time { return Now }
	ctx.LockPath = filepath.Join(cfg.Storage.DataDir, "test.lock")
	ctx.Confirm = func(title, _ string) (bool, error) {
		env.Prompts = append(env.Prompts, title)
		return env.Answer, nil
	}
	ctx.Secret = func(title string) (string, error) {
		env.Prompts = append(env.Prompts, title)
		return env.SecretAnswer, nil
	}
	ctx.ConfigPath = filepath.Join(cfg.Storage.DataDir, "sadhana.toml")
	env.Ctx = ctx
	return env
}
