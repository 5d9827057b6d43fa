package progress

import (
	"fmt"
	"time"

	"github.com/archscope/typegraph/pkg/logger"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	stepSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	stepTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	stepErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	stepSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// messages sent into the step spinner program
type (
	relabelMsg struct{ label string }
	countMsg   struct{ scored, total int }
	finishMsg  struct{ err error }
)

// stepModel renders one pipeline step: a spinner, its label, and an
// optional scored/total edge counter.
type stepModel struct {
	spinner spinner.Model
	label   string
	scored  int
	total   int
	done    bool
	err     error
}

func newStepModel(label string) stepModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = stepSpinnerStyle
	return stepModel{spinner: s, label: label}
}

// Init implements tea.Model
func (m *stepModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m *stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case relabelMsg:
		m.label = msg.label
		return m, nil

	case countMsg:
		m.scored = msg.scored
		m.total = msg.total
		return m, nil

	case finishMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

// View implements tea.Model
func (m *stepModel) View() string {
	if m.done {
		if m.err != nil {
			return stepErrorStyle.Render("✗ ") + stepTextStyle.Render(m.label) +
				stepErrorStyle.Render(fmt.Sprintf(": %v", m.err))
		}
		return stepSuccessStyle.Render("✓ ") + stepTextStyle.Render(m.label)
	}

	view := m.spinner.View() + " " + stepTextStyle.Render(m.label)
	if m.total > 0 {
		percent := m.scored * 100 / m.total
		view += stepTextStyle.Render(fmt.Sprintf(" [%d/%d edges, %d%%]", m.scored, m.total, percent))
	}
	return view
}

// Runner drives a spinner for one long-running pipeline step (extraction,
// scoring, export).
type Runner struct {
	program *tea.Program
}

// NewRunner creates a runner for a step with the given label
func NewRunner(label string) *Runner {
	model := newStepModel(label)
	return &Runner{
		program: tea.NewProgram(&model),
	}
}

// Start runs the spinner in the background. The short sleep lets bubbletea
// take over the terminal before the step starts writing output.
func (r *Runner) Start() {
	go func() {
		if _, err := r.program.Run(); err != nil {
			logger.Error("progress display failed", "error", err)
		}
	}()
	time.Sleep(50 * time.Millisecond)
}

// Relabel swaps the step label while the spinner keeps running
func (r *Runner) Relabel(label string) {
	r.program.Send(relabelMsg{label: label})
}

// SetProgress updates the scored/total counter shown next to the label
func (r *Runner) SetProgress(scored, total int) {
	r.program.Send(countMsg{scored: scored, total: total})
}

// Done stops the spinner, rendering a check or a cross depending on err.
// The sleep gives the program time to paint the final frame.
func (r *Runner) Done(err error) {
	r.program.Send(finishMsg{err: err})
	time.Sleep(50 * time.Millisecond)
}

// Success signals successful completion
func (r *Runner) Success() {
	r.Done(nil)
}

// WithProgress runs one pipeline step under a spinner
func WithProgress(label string, fn func() error) error {
	runner := NewRunner(label)
	runner.Start()
	err := fn()
	runner.Done(err)
	return err
}

// WithProgressSteps runs one pipeline step whose callback can relabel the
// spinner and report edge counts as it works.
func WithProgressSteps(label string, fn func(relabel func(string), count func(int, int)) error) error {
	runner := NewRunner(label)
	runner.Start()

	err := fn(
		func(label string) { runner.Relabel(label) },
		func(scored, total int) { runner.SetProgress(scored, total) },
	)
	runner.Done(err)
	return err
}
