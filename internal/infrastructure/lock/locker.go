package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

// DefaultWaitInterval is used if Options.WaitInterval is zero.
const DefaultWaitInterval = 5 * time.Second

// Options controls what happens if a lock is held by another process.
type Options struct {
	// WaitInterval is the pause between two attempts.
	WaitInterval time.Duration
	// NoWait fails with a FileLockingError instead of waiting.
	NoWait bool
}

// FileLocker acquires exclusive advisory locks on files. Locks are bound to
// the open file descriptor, so the OS drops them if the process dies.
type FileLocker struct {
	opts     Options
	observer syncports.LockObserver
	logger   hclog.Logger
}

// NewFileLocker creates a FileLocker. observer and logger may be nil.
func NewFileLocker(opts Options, observer syncports.LockObserver, logger hclog.Logger) *FileLocker {
	if opts.WaitInterval <= 0 {
		opts.WaitInterval = DefaultWaitInterval
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileLocker{opts: opts, observer: observer, logger: logger}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// prepare creates the parent directories of path and opens the lock file.
func prepare(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, &domain.FileLockingError{
			Path:    path,
			Message: fmt.Sprintf("Could not create parent directories for %s", path),
		}
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o660)
}

func lockedError(path string) error {
	return &domain.FileLockingError{
		Path:    path,
		Message: fmt.Sprintf("%s is locked. Another process related to the feed update may already running.", path),
	}
}

// fileLock is a held lock.
type fileLock struct {
	path     string
	file     *os.File
	once     sync.Once
	observer syncports.LockObserver
	logger   hclog.Logger
	unlock   func(*os.File) error
}

func (l *fileLock) Path() string { return l.path }

// Release unlocks and closes the lock file. Errors are only logged.
func (l *fileLock) Release() {
	l.once.Do(func() {
		l.observer.Released(l.path)
		if err := l.unlock(l.file); err != nil {
			l.logger.Debug("unlock failed", "path", l.path, "error", err)
		}
		if err := l.file.Close(); err != nil {
			l.logger.Debug("closing lock file failed", "path", l.path, "error", err)
		}
	})
}

type nopObserver struct{}

func (nopObserver) Acquiring(string)              {}
func (nopObserver) Acquired(string)               {}
func (nopObserver) Waiting(string, time.Duration) {}
func (nopObserver) Released(string)               {}

var _ syncports.Locker = (*FileLocker)(nil)
