package logging

import (
	"io"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
)

// DebugEnv enables trace logging regardless of the verbosity.
const DebugEnv = "GREENBONE_FEED_SYNC_DEBUG"

// LevelFor maps the output verbosity to a log level. Quiet runs log nothing.
func LevelFor(verbosity int, debug bool) hclog.Level {
	switch {
	case debug:
		return hclog.Trace
	case verbosity <= 0:
		return hclog.Off
	case verbosity >= 3:
		return hclog.Debug
	default:
		return hclog.Warn
	}
}

// DebugFromEnv reports whether DebugEnv is set to a true value.
func DebugFromEnv(lookup func(string) (string, bool)) bool {
	v, ok := lookup(DebugEnv)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// New creates the diagnostic logger of the tool
func New(verbosity int, debug bool, output io.Writer) hclog.Logger {
	level := LevelFor(verbosity, debug)
	if output == nil {
		output = os.Stderr
	}
	if level == hclog.Off {
		output = io.Discard
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "greenbone-feed-sync",
		Level:  level,
		Output: output,
	})
}
