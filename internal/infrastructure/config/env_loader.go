package configinfra

import (
	"context"
	"os"

	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	configports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/config"
)

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

func (OSEnvironment) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// MapEnvironment is a fixed set of variables.
type MapEnvironment map[string]string

func (m MapEnvironment) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvLoader builds a snapshot from the GREENBONE_FEED_SYNC_* variables of
// the registered settings (priority 2). A variable that is set wins even if
// it is empty.
type EnvLoader struct {
	registry *configdomain.Registry
	env      configports.Environment
}

func NewEnvLoader(registry *configdomain.Registry, env configports.Environment) *EnvLoader {
	if env == nil {
		env = OSEnvironment{}
	}
	return &EnvLoader{registry: registry, env: env}
}

func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.LoadEnv(), nil
}

// LoadEnv returns the raw environment values keyed by setting key.
func (l *EnvLoader) LoadEnv() configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	for _, s := range l.registry.Settings() {
		if s.EnvKey == "" {
			continue
		}
		if v, ok := l.env.Lookup(s.EnvKey); ok {
			snap[s.Key] = configdomain.Entry{
				Key:        s.Key,
				Value:      v,
				Source:     configdomain.SourceEnv,
				SourcePath: s.EnvKey,
				Priority:   configdomain.PriorityEnv,
			}
		}
	}
	return snap
}

var (
	_ configports.Loader      = (*EnvLoader)(nil)
	_ configports.Environment = OSEnvironment{}
	_ configports.Environment = MapEnvironment(nil)
)
