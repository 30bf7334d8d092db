package di

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/application/services"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/feed"
	configports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/config"
	procp "github.com/greenbone/greenbone-feed-sync/internal/core/ports/process"
	configinfra "github.com/greenbone/greenbone-feed-sync/internal/infrastructure/config"
	"github.com/greenbone/greenbone-feed-sync/internal/infrastructure/lock"
	"github.com/greenbone/greenbone-feed-sync/internal/infrastructure/privileges"
	infraproc "github.com/greenbone/greenbone-feed-sync/internal/infrastructure/process"
	"github.com/greenbone/greenbone-feed-sync/internal/infrastructure/rsync"
	"github.com/greenbone/greenbone-feed-sync/internal/interfaces/cli"
	"github.com/greenbone/greenbone-feed-sync/internal/interfaces/ui"
	"github.com/greenbone/greenbone-feed-sync/internal/logging"
)

// CommandRunner runs and finds executables.
type CommandRunner interface {
	procp.Executor
	procp.Lookup
}

// PrivilegeDropper switches a root process to an unprivileged account.
type PrivilegeDropper interface {
	DropIfRoot(user, group configdomain.IntOrString) (bool, error)
}

// Container holds all application dependencies. The per-run components
// depend on the resolved settings and are created by Run.
type Container struct {
	registry *configdomain.Registry

	Env       configports.Environment
	Discovery configinfra.Discovery
	Stdout    io.Writer
	Stderr    io.Writer

	// Runner replaces the OS process executor if set.
	Runner CommandRunner
	// Privileges replaces the OS privilege dropper if set.
	Privileges PrivilegeDropper
}

// NewContainer creates a container wired to the process environment and
// the standard streams.
func NewContainer() *Container {
	return &Container{
		registry:  configinfra.NewRegistry(),
		Env:       configinfra.OSEnvironment{},
		Discovery: configinfra.DefaultDiscovery(),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Registry returns the settings registry.
func (c *Container) Registry() *configdomain.Registry { return c.registry }

// LoadConfig resolves all settings without logging.
func (c *Container) LoadConfig(ctx context.Context, opts configinfra.LoadOptions) (*configinfra.Config, error) {
	return c.loader(nil).Load(ctx, opts)
}

func (c *Container) loader(logger hclog.Logger) *configinfra.Loader {
	return configinfra.NewLoader(c.registry, c.Env, logger).WithDiscovery(c.Discovery)
}

// Run resolves the settings and performs the self-test or the feed sync.
func (c *Container) Run(ctx context.Context, inv cli.Invocation) error {
	debug := logging.DebugFromEnv(c.Env.Lookup)

	// verbosity isn't known before the settings are resolved
	bootstrap := logging.New(configdomain.Options{}.Verbosity(inv.Quiet), debug, c.Stderr)
	cfg, err := c.loader(bootstrap).Load(ctx, inv.Load)
	if err != nil {
		return err
	}

	opts := cfg.Options
	verbosity := opts.Verbosity(inv.Quiet)
	logger := logging.New(verbosity, debug, c.Stderr).With("run", uuid.NewString())
	if cfg.File != "" {
		logger.Debug("using config file", "path", cfg.File)
	}

	runner := c.runner(verbosity, logger)
	if inv.SelfTest {
		return services.NewSelfTestService(rsync.Binary, runner, runner, logger).Run(ctx)
	}

	if _, err := c.privileges(logger).DropIfRoot(opts.User, opts.Group); err != nil {
		return err
	}

	console := ui.NewConsole(c.Stdout, c.Stderr, verbosity)
	locker := lock.NewFileLocker(lock.Options{
		WaitInterval: time.Duration(opts.WaitInterval) * time.Second,
		NoWait:       opts.NoWait,
	}, console, logger)
	transfer := rsync.New(rsync.Options{
		Verbose:          verbosity >= ui.VerbosityDebug,
		PrivateDirectory: opts.PrivateDirectory,
		CompressionLevel: opts.CompressionLevel,
		Timeout:          opts.RsyncTimeout,
		SSHKey:           opts.EnterpriseFeedKey,
	}, runner, logger)

	groups := feed.Select(feed.Groups(opts), inv.Type)
	logger.Debug("starting feed sync", "type", inv.Type, "groups", len(groups), "fail_fast", opts.FailFast)

	return services.NewSyncService(locker, transfer, console, logger).Run(ctx, groups, opts.FailFast)
}

// runner streams the rsync output from verbosity 3 on.
func (c *Container) runner(verbosity int, logger hclog.Logger) CommandRunner {
	if c.Runner != nil {
		return c.Runner
	}
	var stdout io.Writer
	if verbosity >= ui.VerbosityDebug {
		stdout = c.Stdout
	}
	return infraproc.NewExecutorWithOptions(nil, stdout, logger)
}

func (c *Container) privileges(logger hclog.Logger) PrivilegeDropper {
	if c.Privileges != nil {
		return c.Privileges
	}
	return privileges.NewDropper(logger)
}

var _ cli.App = (*Container)(nil)
