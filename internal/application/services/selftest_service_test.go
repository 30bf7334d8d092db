package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/process"
)

// MockRunner implements both process ports
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) LookPath(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockRunner) Run(ctx context.Context, cmd process.Command) (process.Result, error) {
	args := m.Called(ctx, cmd.FullCommandLine())
	return process.Result{}, args.Error(0)
}

func TestSelfTestService(t *testing.T) {
	tests := []struct {
		name      string
		lookupErr error
		runErr    error
		wantErr   bool
	}{
		{name: "success"},
		{name: "not_found", lookupErr: errors.New("executable file not found in $PATH"), wantErr: true},
		{name: "not_runnable", runErr: &domain.ExecProcessError{Cmd: []string{"/usr/bin/rsync", "--version"}, ExitCode: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &MockRunner{}
			runner.On("LookPath", "rsync").Return("/usr/bin/rsync", tt.lookupErr)
			runner.On("Run", mock.Anything, []string{"/usr/bin/rsync", "--version"}).Return(tt.runErr)

			err := NewSelfTestService("rsync", runner, runner, nil).Run(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				runner.AssertExpectations(t)
				return
			}

			var selfTestErr *domain.SelfTestError
			require.True(t, errors.As(err, &selfTestErr))
			assert.ErrorIs(t, err, domain.ErrFeedSync)
			if tt.lookupErr != nil {
				runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			}
		})
	}
}
