// Package backup writes and restores whole-store snapshots as JSON files in
// the export format, so any backup can be imported into any backend.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/practice"
)

// ErrNoCollections is returned when a file holds none of the collection keys.
var ErrNoCollections = errors.New("backup contains no collections")

const secondsLayout = "20060102-150405"

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int
}

// RestoreResult is what a restore did.
type RestoreResult struct {
	// SafetyBackup is the snapshot of the state before the restore.
	SafetyBackup string
	Report       practice.ImportReport
}

// Manager handles backup operations for one practice store.
type Manager struct {
	store      *practice.Store
	backupDir  string
	maxBackups int
	now        func() time.Time
}

// NewManager creates a manager that keeps at most maxBackups files in
// backupDir. Values below 1 fall back to the default retention.
func NewManager(store *practice.Store, backupDir string, maxBackups int) *Manager {
	if maxBackups < 1 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		store:      store,
		backupDir:  backupDir,
		maxBackups: maxBackups,
		now:        time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup exports the store into a new backup file and prunes old ones.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// skipRotation keeps a restore's safety backup from pruning the file being restored.
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	doc, err := m.store.ExportAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export collections: %w", err)
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := writeFile(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("backup created", "path", backupPath, "bytes", len(data))

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextPath picks an unused file name: minute precision first, then seconds,
// then seconds with a counter.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidate := m.pathFor(now.Format(constants.BackupTimeLayout))
	if !exists(candidate) {
		return candidate, nil
	}

	stamp := now.Format(secondsLayout)
	candidate = m.pathFor(stamp)
	for counter := 1; exists(candidate); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		candidate = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return candidate, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFile writes through a temp file so a crash never leaves a truncated backup.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// parseStamp extracts the timestamp and collision counter from a backup
// file name.
func parseStamp(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// YYYYMMDD-HHMM, YYYYMMDD-HHMMSS or YYYYMMDD-HHMMSS-N
	seq := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{constants.BackupTimeLayout, secondsLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, seq, true
		}
	}
	return time.Time{}, 0, false
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseStamp(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})

	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	var errs []error
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err))
			continue
		}
		logger.Debug("removed old backup", "path", backups[i].Path)
	}
	return errors.Join(errs...)
}

// Load reads and parses a backup file without touching the store.
func Load(path string) (practice.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	doc, err := practice.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	for _, n := range doc.Counts() {
		if n >= 0 {
			return doc, nil
		}
	}
	return nil, ErrNoCollections
}

// RestoreBackup snapshots the current state, then imports the backup file.
// Collections missing from the file are left as they are.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) (RestoreResult, error) {
	doc, err := Load(backupPath)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	safety, err := m.createBackup(ctx, true)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("failed to backup current state before restore: %w", err)
	}

	report, err := m.store.ImportAll(ctx, doc)
	result := RestoreResult{SafetyBackup: safety, Report: report}
	if err != nil {
		return result, fmt.Errorf("failed to restore backup: %w", err)
	}
	logger.Info("backup restored", "path", backupPath, "imported", report.Imported)
	return result, nil
}
