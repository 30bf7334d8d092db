package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
)

func newTestConsole(verbosity int) (*Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewConsole(&out, &errOut, verbosity), &out, &errOut
}

func TestConsole_LockMessages(t *testing.T) {
	c, out, _ := newTestConsole(2)
	assert.False(t, c.interactive)

	c.Acquiring("/var/lib/gvm/feed-update.lock")
	c.Waiting("/var/lib/gvm/feed-update.lock", 5*time.Second)
	c.Acquired("/var/lib/gvm/feed-update.lock")
	c.Released("/var/lib/gvm/feed-update.lock")

	assert.Equal(t, "Trying to acquire lock on /var/lib/gvm/feed-update.lock\n"+
		"/var/lib/gvm/feed-update.lock is locked by another process. Waiting 5 seconds before next try.\n"+
		"Acquired lock on /var/lib/gvm/feed-update.lock\n"+
		"Releasing lock on /var/lib/gvm/feed-update.lock\n"+
		"\n", out.String())
}

func TestConsole_Quiet(t *testing.T) {
	c, out, errOut := newTestConsole(0)

	c.Acquiring("/lock")
	err := c.Transfer(context.Background(), "NASL files", "rsync://x/", "/dest", func(context.Context) error {
		return errors.New("failed")
	})

	assert.Error(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, "failed\n", errOut.String())
}

func TestConsole_Transfer(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		want      string
	}{
		{name: "normal", verbosity: 1, want: "Downloading NASL files\n"},
		{name: "default", verbosity: 2, want: "Downloading NASL files\n"},
		{name: "verbose", verbosity: 3, want: "Downloading NASL files from rsync://host/nasl/ to /var/lib/openvas/plugins\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, errOut := newTestConsole(tt.verbosity)
			called := false

			err := c.Transfer(context.Background(), "NASL files", "rsync://host/nasl/", "/var/lib/openvas/plugins",
				func(context.Context) error {
					called = true
					return nil
				})

			require.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, tt.want, out.String())
			assert.Empty(t, errOut.String())
		})
	}
}

func TestConsole_ReportsRsyncStderr(t *testing.T) {
	c, _, errOut := newTestConsole(2)
	rsyncErr := domain.NewRsyncError(23, []string{"--links"}, "rsync: link_stat failed\n")

	err := c.Transfer(context.Background(), "SCAP data", "u", "d", func(context.Context) error { return rsyncErr })
	assert.Same(t, rsyncErr, err)
	assert.Equal(t, "rsync: link_stat failed\n", errOut.String())

	errOut.Reset()
	c.ReportError(domain.NewRsyncError(1, nil, ""))
	assert.Equal(t, "'rsync' returned non-zero exit status 1.\n", errOut.String())
}

func TestSpinnerModel(t *testing.T) {
	m := spinnerModel{message: "Downloading gvmd data"}
	assert.Equal(t, spinnerFrames[0]+" Downloading gvmd data", m.View())

	next, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, next.(spinnerModel).frame)

	done, cmd := next.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, done.(spinnerModel).done)
	assert.Empty(t, done.View())
}

func TestRunSpinner(t *testing.T) {
	var out bytes.Buffer
	want := errors.New("transfer failed")

	err := runSpinner(context.Background(), &out, NewConsole(&out, &out, 2).info, "Downloading CERT-Bund data",
		func(context.Context) error {
			time.Sleep(2 * spinnerInterval)
			return want
		})
	assert.Same(t, want, err)
}
