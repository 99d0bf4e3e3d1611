package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/cli/backups"
	"github.com/julianstephens/sadhana/internal/cli/data"
	"github.com/julianstephens/sadhana/internal/cli/goals"
	"github.com/julianstephens/sadhana/internal/cli/japa"
	"github.com/julianstephens/sadhana/internal/cli/journal"
	"github.com/julianstephens/sadhana/internal/cli/recite"
	"github.com/julianstephens/sadhana/internal/cli/stats"
	"github.com/julianstephens/sadhana/internal/cli/system"
	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/errors"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Defaults to $SADHANA_CONFIG, then ~/.config/sadhana/sadhana.toml." type:"path"`
	Verbose bool   `short:"v" help:"Log at debug level to stderr as well as the log file."`
	Backend string `help:"Override storage.backend (json, sqlite, postgres, redis, memory)."`
	DataDir string `help:"Override storage.data_dir." type:"path"`

	Init     system.InitCmd     `cmd:"" help:"Write a config file and initialize storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate data.ValidateCmd   `cmd:"" help:"Check stored records for problems."`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the practice store over HTTP."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage backend credentials in the OS keyring."`
	Japa     japa.JapaCmd       `cmd:"" help:"Record and review japa sessions."`
	Recite   recite.ReciteCmd   `cmd:"" help:"Log and review stotra recitations."`
	Library  recite.LibraryCmd  `cmd:"" help:"List the stotra library."`
	Journal  journal.JournalCmd `cmd:"" help:"Keep a gratitude journal."`
	Goal     goals.GoalCmd      `cmd:"" help:"Manage spiritual and material goals."`
	Insights stats.InsightsCmd  `cmd:"" help:"Show practice statistics." default:"1"`
	Export   data.ExportCmd     `cmd:"" help:"Export all practice data as JSON."`
	Import   data.ImportCmd     `cmd:"" help:"Import practice data from an export or backup file."`
	Wipe     data.WipeCmd       `cmd:"" help:"Erase all practice data."`
	Backup   backups.BackupCmd  `cmd:"" help:"Manage backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily spiritual practice tracker: japa, recitations, gratitude and goals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Backend != "" {
		cfg.Storage.Backend = CLI.Backend
	}
	if CLI.DataDir != "" {
		cfg.Storage.DataDir = CLI.DataDir
	}
	if CLI.Verbose {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	logDir, err := cfg.LogDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: logDir, Level: cfg.Log.Level}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	command, _, _ := strings.Cut(ctx.Command(), " ")

	// Keyring commands run before a postgres or redis backend is reachable.
	var backend storage.Provider
	closeBackend := func() {}
	if command != "keyring" {
		if backend, err = cli.OpenBackend(cfg); err != nil {
			errors.Fatal(err)
		}
		closeBackend = func() {
			if err := backend.Close(); err != nil {
				logger.Warn("failed to close storage", "error", err)
			}
		}

		// init creates storage; doctor reports a failed load itself.
		if command != "init" && command != "doctor" {
			if err := backend.Load(); err != nil {
				closeBackend()
				errors.Fatal(err)
			}
		}
	}

	appCtx, err := cli.NewContext(cfg, backend)
	if err != nil {
		closeBackend()
		errors.Fatal(err)
	}
	appCtx.ConfigPath = CLI.Config

	err = ctx.Run(appCtx)
	closeBackend()
	errors.Fatal(err)
}
