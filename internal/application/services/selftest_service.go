package services

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/process"
	procp "github.com/greenbone/greenbone-feed-sync/internal/core/ports/process"
)

// SelfTestService checks that the transfer binary can be run.
type SelfTestService struct {
	binary   string
	lookup   procp.Lookup
	executor procp.Executor
	logger   hclog.Logger
}

// NewSelfTestService creates a self-test for binary.
func NewSelfTestService(binary string, lookup procp.Lookup, executor procp.Executor, logger hclog.Logger) *SelfTestService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SelfTestService{binary: binary, lookup: lookup, executor: executor, logger: logger}
}

// Run looks up the binary on PATH and runs it with --version.
func (s *SelfTestService) Run(ctx context.Context) error {
	path, err := s.lookup.LookPath(s.binary)
	if err != nil {
		return &domain.SelfTestError{Err: fmt.Errorf("%s executable not found: %w", s.binary, err)}
	}

	cmd, err := process.NewCommand(path, "--version")
	if err != nil {
		return &domain.SelfTestError{Err: err}
	}

	if _, err := s.executor.Run(ctx, cmd); err != nil {
		return &domain.SelfTestError{Err: err}
	}

	s.logger.Debug("self-test passed", "binary", path)
	return nil
}
