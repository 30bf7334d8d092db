package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/feed"
	configinfra "github.com/greenbone/greenbone-feed-sync/internal/infrastructure/config"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

const commandName = "greenbone-feed-sync"

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Invocation is a parsed command line.
type Invocation struct {
	Load     configinfra.LoadOptions
	Type     feed.Type
	SelfTest bool
	Quiet    bool
}

// App executes parsed command lines.
type App interface {
	Registry() *configdomain.Registry
	LoadConfig(ctx context.Context, opts configinfra.LoadOptions) (*configinfra.Config, error)
	Run(ctx context.Context, inv Invocation) error
}

// NewRootCommand creates the greenbone-feed-sync command. Every setting of
// the app's registry gets a flag of the same name.
func NewRootCommand(app App) *cobra.Command {
	flags := newFlagSet(app.Registry())

	rootCmd := &cobra.Command{
		Use:   commandName,
		Short: "Sync the Greenbone Community Feed",
		Long: `Download the Greenbone Community Feed or the Greenbone Enterprise Feed
into the local directories used by openvas and gvmd.

Settings are taken from the command line, the GREENBONE_FEED_SYNC_*
environment variables and the [greenbone-feed-sync] table of the config
file, in that order of precedence.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return domain.NewUsageError("unrecognized arguments: %s", joinArgs(args))
			}
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := flags.invocation(cmd.Flags())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), inv)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	flags.register(rootCmd.Flags())
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &domain.UsageError{Err: err}
	})

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		flags.showResolvedDefaults(cmd.Context(), cmd.Flags(), app)
		defaultHelp(cmd, args)
	})

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, app App, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	return handleError(rootCmd, err, stderr)
}

func handleError(cmd *cobra.Command, err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *domain.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Usage: %s\n%s: error: %v\n", cmd.UseLine(), commandName, err)
		return ExitUsage
	}

	var failed *domain.SyncFailedError
	switch {
	case errors.As(err, &failed):
		// already reported per transfer
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Interrupted")
	case errors.Is(err, domain.ErrFeedSync):
		fmt.Fprintln(stderr, err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitError
}
