package services

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/feed"
	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

// SyncService transfers the targets of each group while holding the
// group's lock.
type SyncService struct {
	locker   syncports.Locker
	transfer syncports.Transfer
	progress syncports.Progress
	logger   hclog.Logger
}

// NewSyncService creates a new sync service. progress and logger may be nil.
func NewSyncService(
	locker syncports.Locker,
	transfer syncports.Transfer,
	progress syncports.Progress,
	logger hclog.Logger,
) *SyncService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SyncService{
		locker:   locker,
		transfer: transfer,
		progress: progress,
		logger:   logger,
	}
}

// Run syncs the groups one after another in the given order. Groups without
// targets are skipped without locking.
//
// A failed transfer is recorded and, unless failFast is set, the remaining
// targets are still attempted. A lock that can't be acquired aborts the run
// and is returned as is. Transfer failures are returned as
// *domain.SyncFailedError.
func (s *SyncService) Run(ctx context.Context, groups []feed.Group, failFast bool) error {
	var failures []error

	for _, group := range groups {
		if group.Empty() {
			s.logger.Debug("skipping group without targets", "group", group.Name)
			continue
		}

		stop, err := s.syncGroup(ctx, group, failFast, &failures)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}

	if len(failures) > 0 {
		return &domain.SyncFailedError{Failures: failures}
	}
	return nil
}

// syncGroup holds the group's lock for all of its targets. It reports
// whether the run has to stop because of fail-fast.
func (s *SyncService) syncGroup(ctx context.Context, group feed.Group, failFast bool, failures *[]error) (bool, error) {
	lock, err := s.locker.Acquire(ctx, group.LockFile)
	if err != nil {
		return true, err
	}
	defer lock.Release()

	logger := s.logger.With("group", group.Name, "lock", lock.Path())
	logger.Debug("syncing group", "targets", len(group.Targets))

	for _, target := range group.Targets {
		if err := s.syncTarget(ctx, target); err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}

			logger.Debug("transfer failed", "target", target.Name, "error", err)
			*failures = append(*failures, err)
			if failFast {
				return true, nil
			}
		}
	}

	return false, nil
}

func (s *SyncService) syncTarget(ctx context.Context, target feed.Target) error {
	transfer := func(ctx context.Context) error {
		return s.transfer.Sync(ctx, target.SourceURL, target.Destination)
	}
	if s.progress == nil {
		return transfer(ctx)
	}
	return s.progress.Transfer(ctx, target.Name, target.SourceURL, target.Destination, transfer)
}
