package dialog

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	backtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			PaddingLeft(1).
			PaddingRight(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("211")).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2)

	activeButtonStyle = buttonStyle.
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))
)

// frame draws body in a bordered box under the application backtitle.
func frame(backtitle string, body ...string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		backtitleStyle.Render(backtitle),
		boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...)),
	) + "\n"
}

func buttons(labels []string, active int) string {
	rendered := make([]string, len(labels))
	for i, label := range labels {
		if i == active {
			rendered[i] = activeButtonStyle.Render(label)
		} else {
			rendered[i] = buttonStyle.Render(label)
		}
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(rendered, " "))
}
