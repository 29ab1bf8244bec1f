package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/tui"
)

func (r *Runner) runTUI(ctx context.Context) error {
	render := func(report *insights.HabitReport) (string, error) {
		return renderReport(r.out, report)
	}
	p := tea.NewProgram(
		tui.NewModel(ctx, r.app.Service, render),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(r.out),
	)
	_, err := p.Run()
	return err
}
