package components

import (
	"context"
	"errors"
	"io"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// ErrInterrupted is returned when the user aborts a running job.
var ErrInterrupted = errors.New("interrupted")

// jobDoneMsg carries the result of the job a Spinner waits on.
type jobDoneMsg struct {
	err error
}

// Spinner shows an animated label while a job runs and quits when the
// job finishes.
type Spinner struct {
	spinner spinner.Model
	label   string
	job     func() error
	done    bool
	err     error
}

// NewSpinner creates a spinner that runs job once started.
func NewSpinner(label string, job func() error) Spinner {
	return Spinner{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Spinner),
		),
		label: label,
		job:   job,
	}
}

func (s Spinner) Init() tea.Cmd {
	job := s.job
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return jobDoneMsg{err: job()}
	})
}

func (s Spinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case jobDoneMsg:
		s.done = true
		s.err = msg.err
		return s, tea.Quit

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			s.done = true
			s.err = ErrInterrupted
			return s, tea.Quit
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s Spinner) View() tea.View {
	return tea.NewView(s.render())
}

func (s Spinner) render() string {
	if s.done {
		return ""
	}
	return s.spinner.View() + " " + theme.Hint.Render(s.label)
}

// Err is the job's error once the spinner has quit.
func (s Spinner) Err() error {
	return s.err
}

// RunSpinner runs job behind a spinner drawn on out. Interrupting the
// spinner cancels the context passed to job.
func RunSpinner(ctx context.Context, out io.Writer, label string, job func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewSpinner(label, func() error { return job(ctx) })
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out)).Run()
	if err != nil {
		return err
	}
	return final.(Spinner).Err()
}
