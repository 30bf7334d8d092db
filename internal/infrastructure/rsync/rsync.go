package rsync

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/process"
	procp "github.com/greenbone/greenbone-feed-sync/internal/core/ports/process"
	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

const (
	// Binary is the executable looked up on PATH.
	Binary = "rsync"

	DefaultSSHPort = 24

	sshOptions = "-o UserKnownHostsFile=/dev/null -o StrictHostKeyChecking=no"
	chmodSpec  = "--chmod=Fugo+r,Fug+w,Dugo-s,Dugo+rx,Dug+w"
)

// Options are the transfer settings shared by all targets of a run.
type Options struct {
	Verbose bool
	// PrivateDirectory is excluded from the transfer and never deleted.
	PrivateDirectory string
	CompressionLevel int
	// Timeout is the rsync I/O timeout in seconds. nil keeps the rsync
	// default.
	Timeout *int
	// SSHKey is the identity used for ssh:// URLs.
	SSHKey string
}

// Rsync implements the Transfer port by running the rsync binary.
type Rsync struct {
	opts     Options
	executor procp.Executor
	logger   hclog.Logger
}

func New(opts Options, executor procp.Executor, logger hclog.Logger) *Rsync {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Rsync{opts: opts, executor: executor, logger: logger}
}

// Sync mirrors sourceURL into destination, creating destination first.
func (r *Rsync) Sync(ctx context.Context, sourceURL, destination string) error {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", destination, err)
	}

	args, err := r.Args(sourceURL, destination)
	if err != nil {
		return err
	}

	cmd, err := process.NewCommand(Binary, args...)
	if err != nil {
		return err
	}

	r.logger.Debug("starting transfer", "url", sourceURL, "destination", destination)
	if _, err := r.executor.Run(ctx, cmd); err != nil {
		var execErr *domain.ExecProcessError
		if errors.As(err, &execErr) {
			return domain.NewRsyncError(execErr.ExitCode, args, execErr.Stderr)
		}
		return err
	}
	return nil
}

// Args returns the rsync arguments for one transfer.
func (r *Rsync) Args(sourceURL, destination string) ([]string, error) {
	args := []string{
		"--links",
		"--times",
		"--omit-dir-times",
		"--recursive",
		"--partial",
		"--progress",
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL %q: %w", sourceURL, err)
	}

	if strings.Contains(u.Scheme, "ssh") {
		port := DefaultSSHPort
		if p := u.Port(); p != "" {
			if port, err = strconv.Atoi(p); err != nil {
				return nil, fmt.Errorf("invalid port in feed URL %q: %w", sourceURL, err)
			}
		}
		args = append(args, "-e", fmt.Sprintf("ssh %s -p %d -i '%s'", sshOptions, port, r.opts.SSHKey))
		sourceURL = sshSource(u)
	}

	if r.opts.Timeout != nil {
		args = append(args, fmt.Sprintf("--timeout=%d", *r.opts.Timeout))
	}

	if r.opts.Verbose {
		args = append(args, "-v")
	} else {
		args = append(args, "-q")
	}

	args = append(args, fmt.Sprintf("--compress-level=%d", r.opts.CompressionLevel))

	args = append(args, "--delete")
	if r.opts.PrivateDirectory != "" {
		args = append(args, "--exclude", r.opts.PrivateDirectory)
	}

	args = append(args, "--perms", chmodSpec, "--copy-unsafe-links", "--hard-links")

	dest, err := filepath.Abs(destination)
	if err != nil {
		return nil, err
	}
	return append(args, sourceURL, dest), nil
}

// sshSource turns ssh://user@host:port/path into user@host:/path.
func sshSource(u *url.URL) string {
	host := u.Hostname()
	if u.User != nil {
		host = u.User.Username() + "@" + host
	}
	return host + ":" + u.Path
}

var _ syncports.Transfer = (*Rsync)(nil)
