package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/sadhana/internal/backup"
	"github.com/julianstephens/sadhana/internal/catalog"
	"github.com/julianstephens/sadhana/internal/config"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/lock"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/models"
	"github.com/julianstephens/sadhana/internal/practice"
	"github.com/julianstephens/sadhana/internal/storage"
	"github.com/julianstephens/sadhana/internal/utils"
	"github.com/julianstephens/sadhana/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Config *config.Config
	// ConfigPath is the --config flag as given; empty means the default location.
	ConfigPath string

	Backend   storage.Provider
	Store     *practice.Store
	Catalog   *catalog.Catalog
	Validator *validation.Validator

	// Now is the reference clock; Location decides what "today" means.
	Now      func() time.Time
	Location *time.Location

	Out     io.Writer
	Confirm func(title, description string) (bool, error)
	Secret  func(title string) (string, error)

	LockPath string
	lock     *lock.Lock
}

// NewContext wires a context for cfg around an opened backend.
func NewContext(cfg *config.Config, backend storage.Provider) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Insights.Timezone)
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:    cfg,
		Backend:   backend,
		Store:     practice.New(backend),
		Catalog:   catalog.Default(),
		Validator: validation.New(),
		Now:       time.Now,
		Location:  loc,
		Out:       os.Stdout,
		Confirm:   Confirm,
		Secret:    PromptSecret,
		LockPath:  filepath.Join(dataDir, constants.LockfileName),
	}, nil
}

// Today returns the current time in the configured zone.
func (c *Context) Today() time.Time {
	return c.Now().In(c.Location)
}

// Timestamp resolves an --at flag into a stored date string. Empty means now.
// Dates carry the configured zone's offset so their day matches Today.
func (c *Context) Timestamp(at string) (string, error) {
	if at == "" {
		return models.TimestampIn(c.Now(), c.Location), nil
	}
	t, err := utils.ParseWhen(at, c.Location)
	if err != nil {
		return "", err
	}
	return models.TimestampIn(t, c.Location), nil
}

// TopN maps the configured tally size onto insights' convention: 0 means no limit.
func (c *Context) TopN(override int) int {
	n := c.Config.Insights.TopN
	if override > 0 {
		n = override
	}
	if n == 0 {
		return -1
	}
	return n
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Lock takes the single-writer lock. Every command that writes calls it
// first and defers Unlock.
func (c *Context) Lock() error {
	if c.lock != nil {
		return nil
	}
	l, err := lock.Acquire(c.LockPath)
	if err != nil {
		return err
	}
	c.lock = l
	return nil
}

// Unlock releases the lock taken by Lock.
func (c *Context) Unlock() {
	if err := c.lock.Release(); err != nil {
		logger.Warn("failed to release lock", "error", err)
	}
	c.lock = nil
}

// ConfirmUnless asks the user to confirm unless yes is already set.
func (c *Context) ConfirmUnless(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	return c.Confirm(title, description)
}

// BackupManager returns a manager over this store using the configured
// backup directory and retention.
func (c *Context) BackupManager() (*backup.Manager, error) {
	dir, err := c.Config.BackupDir()
	if err != nil {
		return nil, err
	}
	return backup.NewManager(c.Store, dir, c.Config.Backup.MaxBackups), nil
}

// PerformAutomaticBackup snapshots the store before a destructive command.
// Failures are logged and reported but do not stop the command.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr, err := c.BackupManager()
	if err == nil {
		var path string
		path, err = mgr.CreateBackup(ctx)
		if err == nil {
			c.Println(MutedStyle.Render("Backup saved: " + filepath.Base(path)))
			return
		}
	}
	logger.Warn("automatic backup failed", "error", err)
	c.Println(Warning("Automatic backup failed: " + err.Error()))
}
