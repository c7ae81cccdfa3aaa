package dialog

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// outcome is how a prompt was closed.
type outcome int

const (
	pending outcome = iota
	accepted
	cancelled
	interrupted
)

type menuModel struct {
	backtitle   string
	title       string
	choices     []string
	cancelLabel string
	cursor      int
	outcome     outcome
}

func newMenuModel(backtitle, title string, choices []string, cancelLabel string) menuModel {
	return menuModel{
		backtitle:   backtitle,
		title:       title,
		choices:     choices,
		cancelLabel: cancelLabel,
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		m.outcome = interrupted
		return m, tea.Quit
	case "esc", "q":
		m.outcome = cancelled
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.choices)-1, 0)
	case "enter":
		if len(m.choices) == 0 {
			m.outcome = cancelled
		} else {
			m.outcome = accepted
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) View() string {
	if m.outcome != pending {
		return ""
	}

	var b strings.Builder
	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + choice))
		} else {
			b.WriteString("  " + choice)
		}
		if i < len(m.choices)-1 {
			b.WriteByte('\n')
		}
	}

	return frame(m.backtitle,
		titleStyle.Render(m.title),
		b.String(),
		helpStyle.Render("enter: select • esc: "+strings.ToLower(m.cancelLabel)),
	)
}

func (m menuModel) selected() (string, bool) {
	if m.outcome != accepted || m.cursor >= len(m.choices) {
		return "", false
	}
	return m.choices[m.cursor], true
}
