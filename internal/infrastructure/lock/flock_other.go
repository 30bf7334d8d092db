//go:build !unix

package lock

import (
	"context"
	"errors"

	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

var errUnsupported = errors.New("advisory file locking is not supported on this platform")

func (l *FileLocker) Acquire(ctx context.Context, path string) (syncports.Lock, error) {
	return nil, errUnsupported
}
