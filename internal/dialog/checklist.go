package dialog

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultVisibleRows = 15
	// lines taken by the backtitle, border, title and help
	checklistChrome = 8
)

type checklistModel struct {
	backtitle string
	title     string
	items     []Item
	checked   []bool
	cursor    int
	offset    int
	rows      int
	outcome   outcome
}

func newChecklistModel(backtitle, title string, items []Item) checklistModel {
	return checklistModel{
		backtitle: backtitle,
		title:     title,
		items:     items,
		checked:   make([]bool, len(items)),
		rows:      defaultVisibleRows,
	}
}

func (m checklistModel) Init() tea.Cmd {
	return nil
}

func (m checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-checklistChrome, 3)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
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
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(m.cursor-m.rows, 0)
		case "pgdown":
			m.cursor = max(min(m.cursor+m.rows, len(m.items)-1), 0)
		case " ", "x":
			if len(m.items) > 0 {
				m.checked[m.cursor] = !m.checked[m.cursor]
			}
		case "a":
			all := !m.allChecked()
			for i := range m.checked {
				m.checked[i] = all
			}
		case "enter":
			m.outcome = accepted
			return m, tea.Quit
		}
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *checklistModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}

func (m checklistModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return len(m.checked) > 0
}

func (m checklistModel) View() string {
	if m.outcome != pending {
		return ""
	}

	end := min(m.offset+m.rows, len(m.items))
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		mark := "[ ]"
		if m.checked[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, m.items[i].Label)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		if m.items[i].Detail != "" {
			b.WriteString("  " + detailStyle.Render(m.items[i].Detail))
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	help := "space: toggle • a: all • enter: ok • esc: cancel"
	if len(m.items) > m.rows {
		help = fmt.Sprintf("%d-%d of %d • %s", m.offset+1, end, len(m.items), help)
	}

	return frame(m.backtitle,
		titleStyle.Render(m.title),
		b.String(),
		helpStyle.Render(help),
	)
}

// selected returns the tags of checked items, in display order.
func (m checklistModel) selected() []string {
	var tags []string
	for i, item := range m.items {
		if m.checked[i] {
			tags = append(tags, item.Tag)
		}
	}
	return tags
}
