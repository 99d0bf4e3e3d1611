package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/keyring"
	"github.com/julianstephens/sadhana/internal/lock"
	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warn marks checks whose failure is reported but not fatal.
	warn bool
	// needsStore skips the check when storage could not be loaded.
	needsStore bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorage},
	{name: "Schema version", run: checkSchema, needsStore: true},
	{name: "Collections readable", run: checkCollections, needsStore: true},
	{name: "Data validation", run: checkValidation, needsStore: true, warn: true},
	{name: "Backups present", run: checkBackups, warn: true},
	{name: "Write lock", run: checkLock, warn: true},
	{name: "Keyring", run: checkKeyring, warn: true},
	{name: "Timezone", run: checkTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeOK := true
	for i, c := range checks {
		if c.needsStore && !storeOK {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Println(cli.Success(c.name + ": OK"))
		case c.warn:
			ctx.Println(cli.Warning(c.name + ": WARNING"))
			ctx.Printf("   %v\n", err)
		default:
			ctx.Println(cli.Failure(c.name + ": FAIL"))
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				storeOK = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorage(ctx *cli.Context) error {
	if err := ctx.Backend.Load(); err != nil {
		return fmt.Errorf("failed to load %s: %w", ctx.Backend.GetConfigPath(), err)
	}
	return nil
}

func checkSchema(ctx *cli.Context) error {
	reporter, ok := ctx.Backend.(storage.SchemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaStatus(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkCollections(ctx *cli.Context) error {
	var errs []error
	for _, st := range ctx.Store.Inspect(context.Background()) {
		switch {
		case st.Err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", st.Key, st.Err))
		case st.Corrupt:
			errs = append(errs, fmt.Errorf("%s: stored value is not a JSON array and reads as empty", st.Key))
		case st.Malformed > 0:
			errs = append(errs, fmt.Errorf("%s: %d of %d records do not decode and are skipped", st.Key, st.Malformed, st.Records+st.Malformed))
		}
	}
	return errors.Join(errs...)
}

func checkValidation(ctx *cli.Context) error {
	bg := context.Background()
	result := ctx.Validator.Collections(
		ctx.Store.JapaHistory(bg),
		ctx.Store.RecitationLog(bg),
		ctx.Store.GratitudeNotes(bg),
		ctx.Store.Goals(bg),
	)
	if result.HasProblems() {
		return fmt.Errorf("%d problem(s), run 'sadhana validate' for details", len(result.Problems))
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'sadhana backup create'")
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	holder, err := lock.Inspect(ctx.LockPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unreadable lockfile %s: %w", ctx.LockPath, err)
	}
	if holder.PID == os.Getpid() {
		return nil
	}
	return fmt.Errorf("lock held by pid %d (%s); it is taken over automatically if that process is gone", holder.PID, holder.Executable)
}

func checkKeyring(ctx *cli.Context) error {
	if ctx.Config.Storage.Backend != config.BackendPostgres && ctx.Config.Storage.Backend != config.BackendRedis {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	_, err := utils.LoadLocation(ctx.Config.Insights.Timezone)
	return err
}
