package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	syncports "github.com/greenbone/greenbone-feed-sync/internal/core/ports/sync"
)

// Verbosity tiers.
const (
	VerbosityQuiet  = 0
	VerbosityNormal = 1
	VerbosityDebug  = 3
)

// Console writes user facing progress to out and errors to errOut.
type Console struct {
	out         io.Writer
	errOut      io.Writer
	verbosity   int
	interactive bool

	info  lipgloss.Style
	muted lipgloss.Style
	fail  lipgloss.Style

	mu sync.Mutex
}

// NewConsole creates a console. The spinner is only used if out is a
// terminal.
func NewConsole(out, errOut io.Writer, verbosity int) *Console {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)

	return &Console{
		out:         out,
		errOut:      errOut,
		verbosity:   verbosity,
		interactive: isTerminal(out),
		info:        outRenderer.NewStyle().Foreground(lipgloss.Color("86")),
		muted:       outRenderer.NewStyle().Foreground(lipgloss.Color("240")),
		fail:        errRenderer.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Verbosity returns the output tier of the console.
func (c *Console) Verbosity() int { return c.verbosity }

// Print writes a line unless the console is quiet.
func (c *Console) Print(format string, args ...any) {
	if c.verbosity < VerbosityNormal {
		return
	}
	c.println(c.out, c.muted, fmt.Sprintf(format, args...))
}

// Error writes msg to the error output regardless of the verbosity.
func (c *Console) Error(msg string) {
	msg = strings.TrimRight(msg, "\n")
	if msg == "" {
		return
	}
	c.println(c.errOut, c.fail, msg)
}

// ReportError prints err. The captured stderr of a failed rsync is printed
// instead of the generic exit status message.
func (c *Console) ReportError(err error) {
	var rsyncErr *domain.RsyncError
	if errors.As(err, &rsyncErr) && strings.TrimSpace(rsyncErr.Stderr) != "" {
		c.Error(rsyncErr.Stderr)
		return
	}
	c.Error(err.Error())
}

func (c *Console) println(w io.Writer, style lipgloss.Style, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg == "" {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, style.Render(msg))
}

func (c *Console) Acquiring(path string) {
	c.Print("Trying to acquire lock on %s", path)
}

func (c *Console) Acquired(path string) {
	c.Print("Acquired lock on %s", path)
}

func (c *Console) Waiting(path string, interval time.Duration) {
	c.Print("%s is locked by another process. Waiting %d seconds before next try.", path, int(interval/time.Second))
}

func (c *Console) Released(path string) {
	c.Print("Releasing lock on %s", path)
	c.Print("")
}

// Transfer runs fn and shows which target is downloaded. From verbosity 3
// on the URL and destination are printed instead of a spinner. A failure
// is reported on the error output.
func (c *Console) Transfer(ctx context.Context, name, sourceURL, destination string, fn func(context.Context) error) error {
	var err error

	switch {
	case c.verbosity >= VerbosityDebug:
		c.println(c.out, c.info, fmt.Sprintf("Downloading %s from %s to %s", name, sourceURL, destination))
		err = fn(ctx)
		c.println(c.out, c.info, "")
	case c.verbosity >= VerbosityNormal && c.interactive:
		err = runSpinner(ctx, c.out, c.info, "Downloading "+name, fn)
	case c.verbosity >= VerbosityNormal:
		c.println(c.out, c.info, "Downloading "+name)
		err = fn(ctx)
	default:
		err = fn(ctx)
	}

	if err != nil && ctx.Err() == nil {
		c.ReportError(err)
	}
	return err
}

var (
	_ syncports.LockObserver = (*Console)(nil)
	_ syncports.Progress     = (*Console)(nil)
)
