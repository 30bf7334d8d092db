package configinfra

import (
	"fmt"
	"strconv"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	configdomain "github.com/greenbone/greenbone-feed-sync/internal/core/domain/config"
)

// ConfigValidator validates resolved options
type ConfigValidator struct{}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate checks the ranges of the numeric settings.
func (v *ConfigValidator) Validate(opts configdomain.Options) error {
	if err := v.ValidateCompressionLevel(opts.CompressionLevel); err != nil {
		return err
	}
	if err := v.ValidateWaitInterval(opts.WaitInterval); err != nil {
		return err
	}
	if opts.RsyncTimeout != nil && *opts.RsyncTimeout < 0 {
		return invalid(KeyRsyncTimeout, *opts.RsyncTimeout, "must not be negative")
	}
	if opts.Verbose != nil && *opts.Verbose < 0 {
		return invalid(KeyVerbose, *opts.Verbose, "must not be negative")
	}
	if opts.FeedURL == "" {
		return &domain.ConfigError{Key: KeyFeedURL, Err: fmt.Errorf("must not be empty")}
	}
	return nil
}

// ValidateCompressionLevel accepts the rsync compression levels 0 to 9.
func (v *ConfigValidator) ValidateCompressionLevel(level int) error {
	if level < 0 || level > 9 {
		return invalid(KeyCompressionLevel, level, "must be between 0 and 9")
	}
	return nil
}

// ValidateWaitInterval accepts positive intervals only.
func (v *ConfigValidator) ValidateWaitInterval(seconds int) error {
	if seconds <= 0 {
		return invalid(KeyWaitInterval, seconds, "must be positive")
	}
	return nil
}

func invalid(key string, value int, reason string) error {
	return &domain.ConfigError{Key: key, Value: strconv.Itoa(value), Err: fmt.Errorf("%s", reason)}
}
