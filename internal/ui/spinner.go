package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// spinnerDoneMsg reports the wrapped call's result to the model.
type spinnerDoneMsg struct {
	err error
}

// SpinnerModel is the Bubble Tea model shown while a slow collaborator
// call runs. The call executes outside the model; the model only waits
// for its completion signal.
type SpinnerModel struct {
	message string
	done    <-chan struct{}
	result  func() error
	spinner spinner.Model
	styles  spinnerStyles
	settled bool
	err     error
}

type spinnerStyles struct {
	message lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func defaultSpinnerStyles() spinnerStyles {
	return spinnerStyles{
		message: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// NewSpinnerModel creates a spinner for the message. The model settles
// when done closes; result must only be called after that, which is the
// ordering waitForWork guarantees.
func NewSpinnerModel(message string, done <-chan struct{}, result func() error) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	return SpinnerModel{
		message: message,
		done:    done,
		result:  result,
		spinner: s,
		styles:  defaultSpinnerStyles(),
	}
}

// Init implements tea.Model.
func (m SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForWork())
}

// Update implements tea.Model.
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.settled = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.settled {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m SpinnerModel) View() string {
	if m.settled {
		if m.err != nil {
			return m.styles.failure.Render("✗ "+m.message) + "\n"
		}
		return m.styles.success.Render("✓ "+m.message) + "\n"
	}
	return m.spinner.View() + " " + m.styles.message.Render(m.message) + "\n"
}

// Err returns the wrapped call's error once the model has settled.
func (m SpinnerModel) Err() error {
	return m.err
}

// waitForWork blocks until the wrapped call signals completion.
func (m SpinnerModel) waitForWork() tea.Cmd {
	return func() tea.Msg {
		<-m.done
		return spinnerDoneMsg{err: m.result()}
	}
}

var newSpinnerProgram = func(model SpinnerModel) programRunner {
	return tea.NewProgram(model)
}

// RunWithSpinner runs work while a spinner animates the message. The
// returned error is the work's own error; a broken terminal never masks
// it.
func RunWithSpinner(message string, work func() error) error {
	done := make(chan struct{})
	var workErr error
	go func() {
		workErr = work()
		close(done)
	}()

	p := newSpinnerProgram(NewSpinnerModel(message, done, func() error { return workErr }))

	// Run returns once the work settles. A terminal failure only stops
	// the animation, so the work result below stays authoritative.
	_, _ = p.Run()

	<-done
	return workErr
}
