//go:build unix

package lock

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"

	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

// Acquire locks path exclusively. If another process holds the lock it
// waits WaitInterval between attempts until ctx is done, or fails directly
// with a FileLockingError in NoWait mode. Other OS errors are returned as
// they are.
func (l *FileLocker) Acquire(ctx context.Context, path string) (syncports.Lock, error) {
	path = absPath(path)

	file, err := prepare(path)
	if err != nil {
		return nil, err
	}

	for {
		l.observer.Acquiring(path)

		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			l.observer.Acquired(path)
			l.logger.Debug("lock acquired", "path", path)
			return &fileLock{
				path:     path,
				file:     file,
				observer: l.observer,
				logger:   l.logger,
				unlock:   funlock,
			}, nil
		}

		if errors.Is(err, unix.EINTR) {
			continue
		}
		if !isLockedErr(err) {
			file.Close()
			return nil, err
		}
		if l.opts.NoWait {
			file.Close()
			return nil, lockedError(path)
		}

		l.observer.Waiting(path, l.opts.WaitInterval)
		l.logger.Debug("lock is held by another process", "path", path, "wait", l.opts.WaitInterval)

		timer := time.NewTimer(l.opts.WaitInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			file.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func isLockedErr(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES)
}

func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
