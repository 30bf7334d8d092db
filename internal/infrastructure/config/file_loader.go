package configinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
	configports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/config"
)

// ConfigTable is the only TOML table read from a config file.
const ConfigTable = "greenbone-feed-sync"

// FileLoader reads the [greenbone-feed-sync] table of a TOML file
// (priority 3). An empty path yields an empty snapshot.
type FileLoader struct {
	path     string
	registry *configdomain.Registry
	logger   hclog.Logger
}

func NewFileLoader(path string, registry *configdomain.Registry, logger hclog.Logger) *FileLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileLoader{path: path, registry: registry, logger: logger}
}

func (l *FileLoader) Name() string { return "file" }

// Path returns the absolute path of the loaded file.
func (l *FileLoader) Path() string {
	if l.path == "" {
		return ""
	}
	if abs, err := filepath.Abs(l.path); err == nil {
		return abs
	}
	return l.path
}

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	if l.path == "" {
		return snap, nil
	}

	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigFileError{Path: path, Err: err}
	}

	values, err := l.parse(path, data)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := l.registry.Lookup(key); !ok {
			l.logger.Warn("ignoring unknown config key", "key", key, "file", path)
			continue
		}
		snap[key] = configdomain.Entry{
			Key:        key,
			Value:      values[key],
			Source:     configdomain.SourceFile,
			SourcePath: path,
			Priority:   configdomain.PriorityFile,
		}
	}

	l.logger.Debug("loaded config file", "file", path, "keys", len(snap))
	return snap, nil
}

func (l *FileLoader) parse(path string, data []byte) (map[string]any, error) {
	doc := make(map[string]any)
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, &domain.ConfigFileError{
			Path:   path,
			Reason: fmt.Sprintf("Can't load config file. %s is not a valid TOML file.", path),
			Err:    err,
		}
	}

	raw, ok := doc[ConfigTable]
	if !ok {
		return map[string]any{}, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, &domain.ConfigFileError{
			Path:   path,
			Reason: fmt.Sprintf("Can't load config file %s. %s must be a table.", path, ConfigTable),
		}
	}
	return table, nil
}

var _ configports.Loader = (*FileLoader)(nil)
