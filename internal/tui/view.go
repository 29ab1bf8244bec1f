package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render("habitlens")
	if m.loading {
		header += " " + m.spinner.View()
	}

	var content string
	switch m.state {
	case StateReport:
		content = docStyle.Render(m.detail.View())
	default:
		content = docStyle.Render(m.viewHabits())
	}

	footer := statusStyle.Render(m.status)
	if m.err != nil {
		footer = errorStyle.Render("Error: " + m.err.Error())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		footer,
		m.help.View(m.keys),
	)
}

func (m Model) viewHabits() string {
	if len(m.list.Items()) == 0 && !m.loading {
		return "\n  No habits yet.\n  Add one with: habitlens habit add <name>"
	}
	return m.list.View()
}
