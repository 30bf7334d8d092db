package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFeedSync is matched by every error the feed sync raises on purpose.
// The entry point prints those without decoration and exits with 1.
var ErrFeedSync = errors.New("feed sync error")

// ConfigFileError reports a config file that was requested but could not be
// read or parsed.
type ConfigFileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigFileError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("Can't load config file %s. Error was %v.", e.Path, e.Err)
}

func (e *ConfigFileError) Unwrap() error { return e.Err }

func (e *ConfigFileError) Is(target error) bool { return target == ErrFeedSync }

// ConfigError reports a resolved setting whose value is semantically invalid.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("Invalid value %q for setting %s", e.Value, e.Key)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrFeedSync }

// FileLockingError reports a lock that could not be obtained.
type FileLockingError struct {
	Path    string
	Message string
}

func (e *FileLockingError) Error() string { return e.Message }

func (e *FileLockingError) Is(target error) bool { return target == ErrFeedSync }

// ExecProcessError is returned when a subprocess exits with a non-zero status.
type ExecProcessError struct {
	Cmd      []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecProcessError) Error() string {
	return fmt.Sprintf("'%s' returned non-zero exit status %d.", strings.Join(e.Cmd, " "), e.ExitCode)
}

func (e *ExecProcessError) Is(target error) bool { return target == ErrFeedSync }

// RsyncError is an ExecProcessError of the rsync binary.
type RsyncError struct {
	ExecProcessError
}

// NewRsyncError creates a RsyncError for the given rsync arguments.
func NewRsyncError(exitCode int, args []string, stderr string) *RsyncError {
	cmd := append([]string{"rsync"}, args...)
	return &RsyncError{ExecProcessError{Cmd: cmd, ExitCode: exitCode, Stderr: stderr}}
}

func (e *RsyncError) Unwrap() error { return &e.ExecProcessError }

// SelfTestError reports a failed --selftest run.
type SelfTestError struct {
	Err error
}

func (e *SelfTestError) Error() string { return fmt.Sprintf("Self-test failed: %v", e.Err) }

func (e *SelfTestError) Unwrap() error { return e.Err }

func (e *SelfTestError) Is(target error) bool { return target == ErrFeedSync }

// SyncFailedError aggregates the transfer failures of a sync run.
type SyncFailedError struct {
	Failures []error
}

func (e *SyncFailedError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	return fmt.Sprintf("%d feed transfers failed", len(e.Failures))
}

func (e *SyncFailedError) Unwrap() []error { return e.Failures }

func (e *SyncFailedError) Is(target error) bool { return target == ErrFeedSync }

// UsageError reports a command line that could not be parsed.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError formats a UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// PrivilegeError reports a failed switch to the configured user or group.
type PrivilegeError struct {
	Msg string
	Err error
}

func (e *PrivilegeError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *PrivilegeError) Unwrap() error { return e.Err }

func (e *PrivilegeError) Is(target error) bool { return target == ErrFeedSync }
