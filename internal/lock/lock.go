// Package lock keeps two sadhana processes from writing the same store.
//
// The lockfile holds "<pid>|<executable>". A lockfile whose process is gone,
// or whose PID now belongs to a different program, is stale and taken over.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/sadhana/internal/logger"
)

var (
	// ErrLocked means another live sadhana process holds the lock.
	ErrLocked = errors.New("store is locked by another sadhana process")

	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
	executableName  = func() string { return filepath.Base(os.Args[0]) }
)

// Lock is a held lockfile.
type Lock struct {
	path  string
	token string
}

// Holder describes the process named in a lockfile.
type Holder struct {
	PID        int
	Executable string
}

func parse(content string) (Holder, error) {
	pidStr, exe, ok := strings.Cut(strings.TrimSpace(content), "|")
	if !ok || exe == "" {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	return Holder{PID: pid, Executable: exe}, nil
}

// alive reports whether h still names a running process of the same program.
func alive(h Holder) bool {
	process, err := findProcessFunc(h.PID)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), h.Executable) || strings.HasPrefix(h.Executable, process.Executable())
}

// Acquire takes the lock at path, replacing a stale lockfile if necessary.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	token := fmt.Sprintf("%d|%s", currentPID(), executableName())

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(token)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("acquired lock", "path", path)
			return &Lock{path: path, token: token}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, err := Inspect(path)
		if err == nil && holder.PID != currentPID() && alive(holder) {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, holder.PID)
		}

		logger.Warn("removing stale lockfile", "path", path, "holder", holder.PID, "error", err)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lockfile keeps reappearing at %s", ErrLocked, path)
}

// Inspect reads the lockfile at path.
func Inspect(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}
	return parse(string(content))
}

// Release removes the lockfile if it is still ours.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if string(content) != l.token {
		logger.Warn("lockfile was replaced by another process, leaving it", "path", l.path)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Path returns the lockfile location.
func (l *Lock) Path() string {
	return l.path
}
