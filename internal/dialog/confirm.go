package dialog

import (
	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	backtitle string
	prompt    string
	labels    []string
	// index into labels; 0 is yes
	focus   int
	outcome outcome
}

func newConfirmModel(backtitle, prompt, yesLabel, noLabel string) confirmModel {
	return confirmModel{
		backtitle: backtitle,
		prompt:    prompt,
		labels:    []string{yesLabel, noLabel},
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		m.outcome = interrupted
		return m, tea.Quit
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.focus = 1 - m.focus
	case "y", "Y":
		m.focus = 0
		m.outcome = accepted
		return m, tea.Quit
	case "n", "N":
		m.focus = 1
		m.outcome = accepted
		return m, tea.Quit
	case "esc":
		m.outcome = cancelled
		return m, tea.Quit
	case "enter", " ":
		m.outcome = accepted
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.outcome != pending {
		return ""
	}
	return frame(m.backtitle, m.prompt, buttons(m.labels, m.focus))
}

// answer is true only when the yes button was chosen.
func (m confirmModel) answer() bool {
	return m.outcome == accepted && m.focus == 0
}

type messageModel struct {
	backtitle string
	text      string
	outcome   outcome
}

func (m messageModel) Init() tea.Cmd {
	return nil
}

func (m messageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		m.outcome = interrupted
		return m, tea.Quit
	case "enter", "esc", " ", "q":
		m.outcome = accepted
		return m, tea.Quit
	}
	return m, nil
}

func (m messageModel) View() string {
	if m.outcome != pending {
		return ""
	}
	return frame(m.backtitle, m.text, buttons([]string{"OK"}, 0))
}
