package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

type tickMsg time.Time

type doneMsg struct{ err error }

// spinnerModel holds the state of the transfer spinner
type spinnerModel struct {
	message string
	frame   int
	done    bool
	style   lipgloss.Style
}

func tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m spinnerModel) Init() tea.Cmd {
	return tick()
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.style.Render(spinnerFrames[m.frame]), m.message)
}

// runSpinner shows a spinner with message until fn returns. The program
// neither reads input nor handles signals, so interrupts reach the caller.
func runSpinner(ctx context.Context, out io.Writer, style lipgloss.Style, message string, fn func(context.Context) error) error {
	program := tea.NewProgram(
		spinnerModel{message: message, style: style},
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		program.Send(doneMsg{err: err})
	}()

	// errors of the spinner itself are ignored
	_, _ = program.Run()
	return <-result
}
