package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/feed"
	configinfra "github.com/greenbone/greenbone-feed-sync/internal/infrastructure/config"
)

type fakeApp struct {
	loader      *configinfra.Loader
	invocations []Invocation
	err         error
}

func newFakeApp(env configinfra.MapEnvironment) *fakeApp {
	if env == nil {
		env = configinfra.MapEnvironment{}
	}
	if _, ok := env["GREENBONE_FEED_SYNC_ENTERPRISE_FEED_KEY"]; !ok {
		env["GREENBONE_FEED_SYNC_ENTERPRISE_FEED_KEY"] = "/nonexistent/greenbone-enterprise-feed-key"
	}
	loader := configinfra.NewLoader(configinfra.NewRegistry(), env, nil).WithDiscovery(configinfra.Discovery{})
	return &fakeApp{loader: loader}
}

func (a *fakeApp) Registry() *configdomain.Registry { return a.loader.Registry() }

func (a *fakeApp) LoadConfig(ctx context.Context, opts configinfra.LoadOptions) (*configinfra.Config, error) {
	return a.loader.Load(ctx, opts)
}

func (a *fakeApp) Run(ctx context.Context, inv Invocation) error {
	a.invocations = append(a.invocations, inv)
	return a.err
}

func execute(t *testing.T, app *fakeApp, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), app, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_Defaults(t *testing.T) {
	app := newFakeApp(nil)

	code, _, stderr := execute(t, app)
	require.Equal(t, ExitOK, code, stderr)
	require.Len(t, app.invocations, 1)

	inv := app.invocations[0]
	assert.Equal(t, feed.TypeAll, inv.Type)
	assert.Empty(t, inv.Load.ConfigFile)
	assert.Empty(t, inv.Load.Overrides)
	assert.False(t, inv.SelfTest)
	assert.False(t, inv.Quiet)
}

func TestExecute_Overrides(t *testing.T) {
	app := newFakeApp(nil)

	code, _, stderr := execute(t, app,
		"--destination-prefix", "/opt/lib",
		"--no-wait",
		"-vvv",
		"--compression-level=3",
		"--type", "NVTs",
		"--failfast",
		"-c", "/etc/feed.toml",
		"--user", "1000",
	)
	require.Equal(t, ExitOK, code, stderr)

	inv := app.invocations[0]
	assert.Equal(t, feed.TypeNVT, inv.Type)
	assert.Equal(t, "/etc/feed.toml", inv.Load.ConfigFile)
	assert.Equal(t, map[string]any{
		configinfra.KeyDestinationPrefix: "/opt/lib",
		configinfra.KeyNoWait:            "true",
		configinfra.KeyVerbose:           "3",
		configinfra.KeyCompressionLevel:  "3",
		configinfra.KeyFailFast:          "true",
		configinfra.KeyUser:              "1000",
	}, inv.Load.Overrides)
}

func TestExecute_OverridesResolve(t *testing.T) {
	app := newFakeApp(nil)

	code, _, _ := execute(t, app, "--destination-prefix", "/opt/lib/", "-vv", "--no-wait")
	require.Equal(t, ExitOK, code)

	cfg, err := app.LoadConfig(context.Background(), app.invocations[0].Load)
	require.NoError(t, err)
	assert.Equal(t, "/opt/lib/gvm/cert-data", cfg.Options.CertDataDestination)
	assert.True(t, cfg.Options.NoWait)
	require.NotNil(t, cfg.Options.Verbose)
	assert.Equal(t, 2, *cfg.Options.Verbose)
}

func TestExecute_SelfTestAndQuiet(t *testing.T) {
	app := newFakeApp(nil)

	code, _, _ := execute(t, app, "--selftest", "--quiet")
	require.Equal(t, ExitOK, code)
	assert.True(t, app.invocations[0].SelfTest)
	assert.True(t, app.invocations[0].Quiet)
}

func TestExecute_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "wait_conflict", args: []string{"--no-wait", "--wait-interval", "3"}, want: "argument --no-wait: not allowed with argument --wait-interval"},
		{name: "verbosity_conflict", args: []string{"--quiet", "-v"}, want: "argument --quiet: not allowed with argument --verbose"},
		{name: "unknown_flag", args: []string{"--frobnicate"}, want: "unknown flag: --frobnicate"},
		{name: "invalid_type", args: []string{"--type", "everything"}, want: "invalid feed type"},
		{name: "invalid_int", args: []string{"--wait-interval", "soon"}, want: "invalid argument"},
		{name: "positional", args: []string{"nvt"}, want: "unrecognized arguments: nvt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newFakeApp(nil)

			code, _, stderr := execute(t, app, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "greenbone-feed-sync: error: ")
			assert.Contains(t, stderr, tt.want)
			assert.Empty(t, app.invocations)
		})
	}
}

func TestExecute_RunErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStderr string
	}{
		{
			name:       "config_error",
			err:        &domain.ConfigError{Key: "feed-release", Value: "abc"},
			wantStderr: "Invalid value \"abc\" for setting feed-release\n",
		},
		{
			name:       "lock_error",
			err:        &domain.FileLockingError{Path: "/x.lock", Message: "/x.lock is locked."},
			wantStderr: "/x.lock is locked.\n",
		},
		{
			name: "sync_failed",
			err:  &domain.SyncFailedError{Failures: []error{errors.New("rsync failed")}},
		},
		{
			name:       "interrupted",
			err:        context.Canceled,
			wantStderr: "Interrupted\n",
		},
		{
			name:       "unexpected_error",
			err:        errors.New("open /var/lib/feed: permission denied"),
			wantStderr: "Error: open /var/lib/feed: permission denied\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newFakeApp(nil)
			app.err = tt.err

			code, _, stderr := execute(t, app)
			assert.Equal(t, ExitError, code)
			assert.Equal(t, tt.wantStderr, stderr)
		})
	}
}

func TestExecute_Version(t *testing.T) {
	app := newFakeApp(nil)

	code, stdout, _ := execute(t, app, "--version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "greenbone-feed-sync version "+Version)
	assert.Empty(t, app.invocations)
}

func TestExecute_HelpShowsResolvedDefaults(t *testing.T) {
	app := newFakeApp(configinfra.MapEnvironment{
		"GREENBONE_FEED_SYNC_DESTINATION_PREFIX": "/opt/lib",
	})

	code, stdout, _ := execute(t, app, "--help")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "--cert-data-destination")
	assert.Contains(t, stdout, `(default "/opt/lib/gvm/cert-data")`)
	assert.Contains(t, stdout, `(default "24.10")`)
	assert.Contains(t, stdout, "(default 5)")
	assert.Empty(t, app.invocations)
}
