// Package ui provides the terminal components halyard uses to talk to
// an operator.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halyard-dev/halyard/internal/domain/validation"
)

// ConfirmModel is the Bubble Tea model for a yes/no prompt. Enter and
// escape decline, so the destructive path always needs an explicit "y".
type ConfirmModel struct {
	prompt   string
	answered bool
	accepted bool
	keymap   confirmKeyMap
	styles   confirmStyles
}

type confirmKeyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

type confirmStyles struct {
	prompt lipgloss.Style
	yes    lipgloss.Style
	no     lipgloss.Style
	subtle lipgloss.Style
}

func defaultConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "enter", "esc"),
			key.WithHelp("n/enter", "no"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func defaultConfirmStyles() confirmStyles {
	return confirmStyles{
		prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		yes:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		no:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// NewConfirmModel creates a confirm model for the prompt.
func NewConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{
		prompt: prompt,
		keymap: defaultConfirmKeyMap(),
		styles: defaultConfirmStyles(),
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Yes):
		m.answered = true
		m.accepted = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keymap.No), key.Matches(keyMsg, m.keymap.Quit):
		m.answered = true
		m.accepted = false
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.prompt.Render(m.prompt))
	b.WriteString(" ")

	if m.answered {
		if m.accepted {
			b.WriteString(m.styles.yes.Render("yes"))
		} else {
			b.WriteString(m.styles.no.Render("no"))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.styles.yes.Render("[y]es"))
	b.WriteString(" ")
	b.WriteString(m.styles.no.Render("[N]o"))
	b.WriteString(" ")
	b.WriteString(m.styles.subtle.Render("(enter declines)"))
	b.WriteString("\n")

	return b.String()
}

// Accepted reports whether the operator answered yes.
func (m ConfirmModel) Accepted() bool {
	return m.accepted
}

// programRunner abstracts the Bubble Tea program so tests can stub the
// terminal interaction.
type programRunner interface {
	Run() (tea.Model, error)
}

var newConfirmProgram = func(model ConfirmModel) programRunner {
	return tea.NewProgram(model)
}

// RunConfirmTUI asks the prompt and reports the operator's answer.
func RunConfirmTUI(prompt string) (bool, error) {
	p := newConfirmProgram(NewConfirmModel(prompt))

	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("TUI error: %w", err)
	}

	confirmModel, ok := finalModel.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type returned from TUI")
	}

	return confirmModel.Accepted(), nil
}

// InteractiveConfirmer asks the operator through a terminal prompt. A
// broken terminal counts as a declined answer.
type InteractiveConfirmer struct{}

var _ validation.Confirmer = InteractiveConfirmer{}

// Confirm implements validation.Confirmer.
func (InteractiveConfirmer) Confirm(prompt string) bool {
	accepted, err := RunConfirmTUI(prompt)
	if err != nil {
		return false
	}
	return accepted
}

// StaticConfirmer answers every prompt with a fixed answer. It backs
// the --yes and --non-interactive flags.
type StaticConfirmer struct {
	Answer bool
}

var _ validation.Confirmer = StaticConfirmer{}

// Confirm implements validation.Confirmer.
func (s StaticConfirmer) Confirm(string) bool {
	return s.Answer
}
