package configinfra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
)

// Default config file locations.
const (
	DefaultUserConfigFile   = "~/.config/greenbone-feed-sync.toml"
	DefaultGlobalConfigFile = "/etc/gvm/greenbone-feed-sync.toml"
)

// Discovery locates the config file to load.
type Discovery struct {
	// Candidates are tried in order when no explicit file is requested.
	Candidates []string
	// HomeDir replaces "~". Empty means the current user's home.
	HomeDir string
}

// DefaultDiscovery tries the user file before the system wide one.
func DefaultDiscovery() Discovery {
	return Discovery{Candidates: []string{DefaultUserConfigFile, DefaultGlobalConfigFile}}
}

// Find returns the absolute path of the config file to load or "" if there
// is none. An explicit path that does not exist is an error.
func (d Discovery) Find(explicit string) (string, error) {
	if explicit != "" {
		path, err := d.expand(explicit)
		if err != nil {
			return "", &domain.ConfigFileError{Path: explicit, Err: err}
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", &domain.ConfigFileError{
					Path:   path,
					Reason: fmt.Sprintf("Config file %s does not exist.", explicit),
					Err:    err,
				}
			}
			return "", &domain.ConfigFileError{Path: path, Err: err}
		}
		return path, nil
	}

	for _, candidate := range d.Candidates {
		path, err := d.expand(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func (d Discovery) expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home := d.HomeDir
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return "", err
			}
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
