package process

import (
	"context"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/process"
)

// Executor runs a command to completion.
//
// A non-zero exit status is reported as *domain.ExecProcessError together
// with the captured output.
type Executor interface {
	Run(ctx context.Context, cmd process.Command) (process.Result, error)
}

// Lookup finds executables on the search path.
type Lookup interface {
	LookPath(name string) (string, error)
}
