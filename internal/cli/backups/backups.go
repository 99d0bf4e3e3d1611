package backups

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/julianstephens/sadhana/internal/cli"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
	List    BackupListCmd    `cmd:"" help:"List available backups." default:"1"`
	Restore BackupRestoreCmd `cmd:"" help:"Restore practice data from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Println(cli.Success("Backup created: " + filepath.Base(backupPath)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

// resolve prefers a bare filename inside the backup directory over the working directory.
func (c *BackupRestoreCmd) resolve(backupDir string) (string, error) {
	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(backupDir, c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("backup file not found: %s", backupPath)
	}
	return backupPath, nil
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backupPath, err := c.resolve(mgr.GetBackupDir())
	if err != nil {
		return err
	}

	ok, err := ctx.ConfirmUnless(c.Yes, "Restore from "+filepath.Base(backupPath)+"?",
		"Collections in the backup replace the current ones. A backup of the current data is taken first.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Restore cancelled.")
		return nil
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	result, err := mgr.RestoreBackup(context.Background(), backupPath)
	if result.SafetyBackup != "" {
		ctx.Println(cli.MutedStyle.Render("Current data saved to " + filepath.Base(result.SafetyBackup)))
	}
	ctx.PrintImportReport(result.Report)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println(cli.Success("Practice data restored"))
	return nil
}
