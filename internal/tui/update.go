package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width-2, msg.Height-4)
		m.detail.Width = msg.Width - 2
		m.detail.Height = msg.Height - 4
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case habitsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.habits))
		for i, h := range msg.habits {
			items[i] = Item{Summary: h}
		}
		return m, m.list.SetItems(items)

	case dashboardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		in := msg.insights
		alerts := 0
		if in.RiskAlerts != nil {
			alerts = in.RiskAlerts.Total
		}
		m.status = fmt.Sprintf("%d habits analyzed | %d alerts", in.HabitsAnalyzed, alerts)
		if in.MotivationalInsight != nil {
			m.status += " | " + in.MotivationalInsight.Message
		}
		return m, nil

	case reportLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = StateReport
		m.detail.SetContent(msg.content)
		m.detail.GotoTop()
		return m, nil

	case entryLoggedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Logged %s for %s", msg.name, msg.result.Entry.Date)
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadHabits())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadHabits(), m.loadDashboard())
		}

		if m.state == StateReport {
			if key.Matches(msg, m.keys.Back) {
				m.state = StateHabits
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Open):
			if s, ok := m.selected(); ok {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.loadReport(s.ID))
			}
			return m, nil
		case key.Matches(msg, m.keys.Log):
			if s, ok := m.selected(); ok {
				return m, m.logEntry(s)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
