package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/storage"
)

type DebugCmd struct {
	Paths DebugPathsCmd `cmd:"" help:"Show config, storage, backup and log locations."`
	Dump  DebugDumpCmd  `cmd:"" help:"Print a collection exactly as stored."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	configPath, err := config.ResolvePath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	backupDir, err := ctx.Config.BackupDir()
	if err != nil {
		return err
	}
	logDir, err := ctx.Config.LogDir()
	if err != nil {
		return err
	}

	return ctx.PrintJSON(map[string]string{
		"config":  configPath,
		"backend": ctx.Config.Storage.Backend,
		"storage": ctx.Backend.GetConfigPath(),
		"backups": backupDir,
		"logs":    logDir,
		"lock":    ctx.LockPath,
	})
}

type DebugDumpCmd struct {
	Key string `arg:"" enum:"japa_history,recitation_log,gratitude_notes,goals_list" help:"Collection key (japa_history, recitation_log, gratitude_notes, goals_list)."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	if !constants.IsKnownKey(cmd.Key) {
		return fmt.Errorf("unknown collection key %q", cmd.Key)
	}
	data, err := ctx.Backend.Read(context.Background(), cmd.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("nothing stored under %s", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Key, err)
	}

	// Stored bytes that are not JSON are printed verbatim.
	var v any
	if json.Unmarshal(data, &v) != nil {
		ctx.Println(string(data))
		return nil
	}
	return ctx.PrintJSON(v)
}
