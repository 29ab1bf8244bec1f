// Package tui is an interactive terminal dashboard over the habit service.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
)

// Renderer turns a habit report into the text shown in the detail pane
type Renderer func(*insights.HabitReport) (string, error)

type SessionState int

const (
	StateHabits SessionState = iota
	StateReport
)

// Item is one habit row
type Item struct {
	Summary habitsvc.Summary
}

func (i Item) Title() string {
	if i.Summary.Icon == "" {
		return i.Summary.Name
	}
	return i.Summary.Icon + " " + i.Summary.Name
}
func (i Item) Description() string {
	desc := fmt.Sprintf("%d day streak | %d entries", i.Summary.Streak, i.Summary.TotalEntries)
	if i.Summary.LatestPhotoDate != "" {
		desc += " | last " + i.Summary.LatestPhotoDate
	}
	return desc
}
func (i Item) FilterValue() string { return i.Summary.Name }

type habitsLoadedMsg struct {
	habits []habitsvc.Summary
	err    error
}

type dashboardLoadedMsg struct {
	insights *dashboard.Insights
	err      error
}

type reportLoadedMsg struct {
	habitID string
	content string
	err     error
}

type entryLoggedMsg struct {
	name   string
	result *habitsvc.EntryResult
	err    error
}

type Model struct {
	ctx      context.Context
	service  *habitsvc.Service
	render   Renderer
	state    SessionState
	keys     KeyMap
	help     help.Model
	list     list.Model
	detail   viewport.Model
	spinner  spinner.Model
	loading  bool
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel creates the dashboard model; render may be nil
func NewModel(ctx context.Context, service *habitsvc.Service, render Renderer) Model {
	if render == nil {
		render = plainReport
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		service: service,
		render:  render,
		state:   StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    l,
		detail:  viewport.New(0, 0),
		spinner: s,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadHabits(), m.loadDashboard())
}

func (m Model) loadHabits() tea.Cmd {
	return func() tea.Msg {
		habits, err := m.service.ListHabits(m.ctx)
		return habitsLoadedMsg{habits: habits, err: err}
	}
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		in, err := m.service.RefreshInsights(m.ctx)
		return dashboardLoadedMsg{insights: in, err: err}
	}
}

func (m Model) loadReport(habitID string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.service.HabitInsights(m.ctx, habitID)
		if err != nil {
			return reportLoadedMsg{habitID: habitID, err: err}
		}
		content, err := m.render(report)
		return reportLoadedMsg{habitID: habitID, content: content, err: err}
	}
}

func (m Model) logEntry(s habitsvc.Summary) tea.Cmd {
	return func() tea.Msg {
		result, err := m.service.AddEntry(m.ctx, s.ID, "", "")
		return entryLoggedMsg{name: s.Name, result: result, err: err}
	}
}

func (m Model) selected() (habitsvc.Summary, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item.Summary, ok
}

func plainReport(r *insights.HabitReport) (string, error) {
	out := fmt.Sprintf("%s\n\nConsistency: %.0f (%s)\nStrength: %.0f (%s)\n",
		r.Habit.Name,
		r.Consistency.Score, r.Consistency.Consistency,
		r.Strength.Score, r.Strength.Level,
	)
	for _, a := range r.Predictions.Alerts {
		out += fmt.Sprintf("\n%s %s: %s", a.Icon, a.Title, a.Message)
	}
	return out, nil
}
