package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gmsas95/habitlens/internal/catalog"
	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/store"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects how command output is written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8b5cf6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// print writes v in the runner's format. text renders the text form; when
// nil, text output falls back to indented JSON.
func (r *Runner) print(v interface{}, text func() (string, error)) error {
	var out string
	var err error

	switch {
	case r.format == FormatYAML:
		out, err = toYAML(v)
	case r.format == FormatJSON || text == nil:
		out, err = toJSON(v)
	default:
		out, err = text()
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(r.out, out)
	return err
}

func toJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// toYAML goes through JSON so field names match the API
func toYAML(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderHabits(list []habitsvc.Summary) string {
	if len(list) == 0 {
		return mutedStyle.Render("No habits yet. Add one with: habitlens habit add <name>") + "\n"
	}

	t := newTable("ID", "Name", "Streak", "Entries", "Latest")
	for _, h := range list {
		latest := h.LatestPhotoDate
		if latest == "" {
			latest = "-"
		}
		t.Row(h.ID, h.Name, fmt.Sprintf("%d 🔥", h.Streak), fmt.Sprint(h.TotalEntries), latest)
	}
	return t.Render() + "\n"
}

func renderEntries(entries []store.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No entries yet.") + "\n"
	}

	t := newTable("Date", "ID", "Category", "Note")
	for _, e := range entries {
		category := "-"
		if c := e.Classification(); c != nil {
			category = c.CategoryName
		}
		t.Row(e.Date, e.ID, category, e.Note)
	}
	return t.Render() + "\n"
}

func renderEntryResult(result *habitsvc.EntryResult) string {
	var sb strings.Builder
	sb.WriteString(successStyle.Render("✓ Logged entry for "+result.Entry.Date) + "\n")
	if c := result.Entry.Classification(); c != nil {
		fmt.Fprintf(&sb, "  Category: %s (%.0f%%)\n", c.CategoryName, c.Confidence*100)
	}
	fmt.Fprintf(&sb, "  Photo: %s\n", result.Quality.Feedback)
	return sb.String()
}

func renderStats(stats *dashboard.Stats) string {
	var sb strings.Builder
	o := stats.Overall
	sb.WriteString(titleStyle.Render("Overview") + "\n")
	fmt.Fprintf(&sb, "  Habits: %d   Entries: %d   Completion: %d%%\n", o.TotalHabits, o.TotalEntries, o.CompletionRate)
	fmt.Fprintf(&sb, "  Streaks: current %d, longest %d, average %d\n", stats.Streaks.Current, stats.Streaks.Longest, stats.Streaks.Average)

	if len(stats.TopHabits) > 0 {
		sb.WriteString("\n" + titleStyle.Render("Top habits") + "\n")
		t := newTable("Habit", "Streak", "Entries")
		for _, h := range stats.TopHabits {
			t.Row(h.Habit.Name, fmt.Sprint(h.Streak), fmt.Sprint(h.TotalEntries))
		}
		sb.WriteString(t.Render() + "\n")
	}

	if len(stats.WeeklyPattern) > 0 {
		sb.WriteString("\n" + titleStyle.Render("By weekday") + "\n")
		for _, d := range stats.WeeklyPattern {
			fmt.Fprintf(&sb, "  %-4s %s %d\n", d.Day, strings.Repeat("█", d.Count), d.Count)
		}
	}
	return sb.String()
}

func renderSuggestions(list []catalog.Suggestion) string {
	var sb strings.Builder
	for _, s := range list {
		fmt.Fprintf(&sb, "%s %s\n", titleStyle.Render(s.Name), mutedStyle.Render("("+s.Reason+")"))
		if s.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", s.Description)
		}
	}
	return sb.String()
}

func renderImport(result *store.ImportResult) string {
	msg := fmt.Sprintf("✓ Imported %d habits and %d entries (%d skipped)",
		result.Habits, result.Entries, result.Skipped)
	if result.Replaced > 0 {
		msg += fmt.Sprintf(", %d same-day entries replaced", result.Replaced)
	}
	return successStyle.Render(msg) + "\n"
}

func renderReport(out io.Writer, report *insights.HabitReport) (string, error) {
	return renderMarkdown(out, reportMarkdown(report))
}

func renderDashboard(out io.Writer, in *dashboard.Insights) (string, error) {
	return renderMarkdown(out, dashboardMarkdown(in))
}

func renderMarkdown(out io.Writer, md string) (string, error) {
	style := "notty"
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func reportMarkdown(r *insights.HabitReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Habit.Name)
	fmt.Fprintf(&sb, "**Streak:** %d days · **Strength:** %s (%.0f) · **Consistency:** %s\n\n",
		r.Streak, r.Strength.Level, r.Strength.Score, r.Consistency.Consistency)

	if r.Motivation.Primary.Message != "" {
		fmt.Fprintf(&sb, "> %s\n\n", r.Motivation.Primary.Message)
	}

	sb.WriteString("## Consistency\n\n")
	sb.WriteString(r.Consistency.Message + "\n\n")
	for _, s := range r.Consistency.Insights {
		fmt.Fprintf(&sb, "- %s\n", s)
	}

	if r.Strength.Description != "" {
		sb.WriteString("\n## Strength\n\n" + r.Strength.Description + "\n")
	}

	writeInsights(&sb, "Progress", r.Progress.Insights)
	writeInsights(&sb, "Patterns", r.Patterns.Insights)
	writeInsights(&sb, "Trends", r.Trends.Insights)

	if len(r.Predictions.Alerts) > 0 {
		sb.WriteString("\n## Alerts\n\n")
		for _, a := range r.Predictions.Alerts {
			fmt.Fprintf(&sb, "- **%s:** %s\n", a.Title, a.Message)
		}
	}

	if len(r.Achievements.Achievements) > 0 {
		sb.WriteString("\n## Achievements\n\n")
		for _, a := range r.Achievements.Achievements {
			fmt.Fprintf(&sb, "- **%s**: %s\n", a.Title, a.Description)
		}
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("\n## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&sb, "- **%s:** %s\n", s.Title, s.Message)
		}
	}
	return sb.String()
}

func writeInsights(sb *strings.Builder, title string, list []insights.Insight) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", title)
	for _, in := range list {
		fmt.Fprintf(sb, "- %s\n", in.Message)
	}
}

func dashboardMarkdown(in *dashboard.Insights) string {
	if in.IsEmpty() {
		return "# Dashboard\n\nStart logging your habits to see insights.\n"
	}

	var sb strings.Builder
	sb.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&sb, "%s\n\n", in.OverallConsistency.Message)
	fmt.Fprintf(&sb, "- Habits analyzed: %d\n", in.HabitsAnalyzed)
	fmt.Fprintf(&sb, "- Average consistency: %.0f (%s)\n", in.OverallConsistency.AverageScore, in.OverallConsistency.Rating)
	if s := in.OverallStrength; s != nil {
		fmt.Fprintf(&sb, "- Strong habits: %d of %d\n", s.StrongHabitsCount, s.TotalHabits)
	}
	if tr := in.OverallTrends; tr != nil {
		fmt.Fprintf(&sb, "- Trend: %s (%d improving, %d declining)\n", tr.OverallDirection, tr.ImprovingCount, tr.DecliningCount)
	}

	if in.MotivationalInsight != nil {
		fmt.Fprintf(&sb, "\n> %s\n", in.MotivationalInsight.Message)
	}

	if a := in.RiskAlerts; a != nil && a.Total > 0 {
		sb.WriteString("\n## Alerts\n\n")
		for _, alert := range append(append([]insights.Alert{}, a.Urgent...), a.Warnings...) {
			fmt.Fprintf(&sb, "- **%s** (%s): %s\n", alert.HabitName, alert.Title, alert.Message)
		}
	}

	if len(in.TopPerformingHabits) > 0 {
		sb.WriteString("\n## Top performers\n\n")
		for i, h := range in.TopPerformingHabits {
			fmt.Fprintf(&sb, "%d. %s (%.0f)\n", i+1, h.Habit.Name, h.Score)
		}
	}

	if len(in.HabitsNeedingAttention) > 0 {
		sb.WriteString("\n## Needs attention\n\n")
		for _, h := range in.HabitsNeedingAttention {
			fmt.Fprintf(&sb, "- %s\n", h.Habit.Name)
		}
	}
	return sb.String()
}
