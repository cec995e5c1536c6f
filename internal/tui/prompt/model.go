package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	choiceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

// Model is a single-choice list.
type Model struct {
	message   string
	choices   []string
	cursor    int
	chosen    string
	cancelled bool
}

// NewModel returns a list of choices with the cursor on the first one.
func NewModel(message string, choices []string) Model {
	return Model{message: message, choices: append([]string(nil), choices...)}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Choose):
		if len(m.choices) > 0 {
			m.chosen = m.choices[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("? " + m.message))

	if m.chosen != "" {
		b.WriteString(" ")
		b.WriteString(answerStyle.Render(m.chosen))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")

	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + choice))
		} else {
			b.WriteString(choiceStyle.Render("  " + choice))
		}
		b.WriteString("\n")
	}

	help := []string{}
	for _, binding := range []key.Binding{keys.Up, keys.Down, keys.Choose, keys.Cancel} {
		h := binding.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the selected choice, or "" when none was made.
func (m Model) Chosen() string { return m.chosen }

// Cancelled reports whether the user dismissed the list.
func (m Model) Cancelled() bool { return m.cancelled }
