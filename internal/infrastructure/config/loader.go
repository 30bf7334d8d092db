package configinfra

import (
	"context"

	"github.com/hashicorp/go-hclog"

	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	configports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/config"
)

// LoadOptions controls a single Load.
type LoadOptions struct {
	// ConfigFile is the path given with --config. Empty means discovery.
	ConfigFile string
	// Overrides are values given on the command line keyed by setting key.
	Overrides map[string]any
}

// Config is the outcome of Load.
type Config struct {
	Resolved *configdomain.Resolved
	Options  configdomain.Options
	// File is the config file that was read, if any.
	File string
}

// Loader resolves the settings registry from the command line, the
// environment, the config file and the defaults.
type Loader struct {
	registry  *configdomain.Registry
	env       configports.Environment
	discovery Discovery
	validator *ConfigValidator
	logger    hclog.Logger
}

func NewLoader(registry *configdomain.Registry, env configports.Environment, logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if env == nil {
		env = OSEnvironment{}
	}
	return &Loader{
		registry:  registry,
		env:       env,
		discovery: DefaultDiscovery(),
		validator: NewConfigValidator(),
		logger:    logger,
	}
}

// WithDiscovery replaces the default config file locations.
func (l *Loader) WithDiscovery(d Discovery) *Loader {
	l.discovery = d
	return l
}

// Registry returns the registry the loader resolves.
func (l *Loader) Registry() *configdomain.Registry { return l.registry }

// Load resolves every setting. CLI overrides are part of the layers, so
// dependent defaults are computed from the overridden base values.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	path, err := l.discovery.Find(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	loaders := []configports.Loader{
		NewFileLoader(path, l.registry, l.logger),
		NewEnvLoader(l.registry, l.env),
	}

	layers := make(configdomain.Snapshot)
	for _, loader := range loaders {
		snap, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		l.logger.Trace("config layer loaded", "layer", loader.Name(), "values", len(snap))
		layers.Merge(snap)
	}
	layers.Merge(cliSnapshot(opts.Overrides))

	resolved, err := l.registry.Resolve(layers, EnterpriseAdjuster(l.logger))
	if err != nil {
		return nil, err
	}

	options, err := configdomain.DecodeOptions(resolved)
	if err != nil {
		return nil, err
	}
	if err := l.validator.Validate(options); err != nil {
		return nil, err
	}

	for _, key := range resolved.Keys() {
		e, _ := resolved.Entry(key)
		l.logger.Trace("setting resolved", "key", key, "value", e.Value, "source", e.Source)
	}

	return &Config{Resolved: resolved, Options: options, File: path}, nil
}

func cliSnapshot(overrides map[string]any) configdomain.Snapshot {
	snap := make(configdomain.Snapshot, len(overrides))
	for key, value := range overrides {
		snap[key] = configdomain.Entry{
			Key:        key,
			Value:      value,
			Source:     configdomain.SourceCLI,
			SourcePath: "--" + key,
			Priority:   configdomain.PriorityCLI,
		}
	}
	return snap
}
