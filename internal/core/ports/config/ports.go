package configports

import (
	"context"

	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

// Loader produces one layer of raw setting values.
type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}

// Environment gives access to environment variables.
type Environment interface {
	Lookup(key string) (string, bool)
}
