// Package pidfile records the pid of the running scmpc instance and stops it on request.
// A flock on "<pid file>.lock" is held for as long as the instance runs.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

var (
	// ErrAlreadyRunning is returned by Acquire when another instance holds the lock.
	ErrAlreadyRunning = errors.New("another scmpc instance is already running")
	// ErrNotRunning is returned by Terminate when no instance holds the lock.
	ErrNotRunning = errors.New("scmpc is not running")
)

// File is an acquired pid file.
type File struct {
	path string
	lock *flock.Flock
}

func lockPath(path string) string {
	return path + ".lock"
}

// Acquire locks path and writes the current pid to it.
func Acquire(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create pid directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}

	pid := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(path, []byte(pid), 0o644); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("write pid file %q: %w", path, err)
	}

	return &File{path: path, lock: lock}, nil
}

// Path returns the location of the pid file.
func (f *File) Path() string {
	return f.path
}

// Release removes the pid file and drops the lock.
func (f *File) Release() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file %q: %w", f.path, err)
	}
	if err := f.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(lockPath(f.path))
	return nil
}

// Read returns the pid stored in path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pid file %q: %w", path, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %q does not contain a valid pid", path)
	}
	return pid, nil
}

// Terminate sends SIGTERM to the instance recorded in path. A pid file left
// behind by a dead instance is removed and ErrNotRunning returned.
func Terminate(path string) error {
	running, err := locked(path)
	if err != nil {
		return err
	}
	if !running {
		_ = os.Remove(path)
		return ErrNotRunning
	}

	pid, err := Read(path)
	if err != nil {
		return err
	}
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to kill current process (pid %d)", pid)
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}
	return nil
}

// locked reports whether some process holds the lock for path.
func locked(path string) (bool, error) {
	if _, err := os.Stat(lockPath(path)); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	lock := flock.New(lockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe lock: %w", err)
	}
	if ok {
		_ = lock.Unlock()
		return false, nil
	}
	return true, nil
}
