package syncports

import (
	"context"
	"time"
)

// Transfer mirrors a remote feed location into a local directory.
type Transfer interface {
	Sync(ctx context.Context, sourceURL, destination string) error
}

// Lock is a held advisory lock. Release is best effort and may be called
// more than once.
type Lock interface {
	Path() string
	Release()
}

// Locker acquires exclusive advisory locks on files.
type Locker interface {
	Acquire(ctx context.Context, path string) (Lock, error)
}

// LockObserver is notified about the progress of lock acquisition.
type LockObserver interface {
	Acquiring(path string)
	Acquired(path string)
	Waiting(path string, interval time.Duration)
	Released(path string)
}

// Progress reports transfer progress to the user.
type Progress interface {
	// Transfer runs fn while showing that name is being downloaded.
	Transfer(ctx context.Context, name, sourceURL, destination string, fn func(context.Context) error) error
}
