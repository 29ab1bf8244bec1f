// Package channels holds the chat bots that deliver reminders and answer
// habit commands.
package channels

import (
	"context"
	"fmt"
	"strings"

	habitsvc "github.com/gmsas95/habitlens/internal/habits"
)

// HelpText lists the chat commands
const HelpText = `Available commands:
habits - list habits with streaks
dashboard - overall consistency and alerts
log <habit name> - record today's check-in
help - show this help`

// Commands answers chat commands from the habit service
type Commands struct {
	service *habitsvc.Service
}

// NewCommands creates a command handler. service may be nil, in which case
// only help is available.
func NewCommands(service *habitsvc.Service) *Commands {
	return &Commands{service: service}
}

// Reply returns the response to a command; args is the text after it
func (c *Commands) Reply(ctx context.Context, command, args string) string {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "start", "help":
		return HelpText
	}

	if c.service == nil {
		return "Habit tracking is not available right now."
	}

	switch command {
	case "habits":
		return c.habits(ctx)
	case "dashboard":
		return c.dashboard(ctx)
	case "log":
		return c.log(ctx, strings.TrimSpace(args))
	default:
		return "Unknown command. Send help for the list of commands."
	}
}

func (c *Commands) habits(ctx context.Context) string {
	list, err := c.service.ListHabits(ctx)
	if err != nil {
		return "Failed to load habits."
	}
	if len(list) == 0 {
		return "No habits yet."
	}

	var sb strings.Builder
	for _, h := range list {
		fmt.Fprintf(&sb, "• %s: %d day streak, %d entries\n", h.Name, h.Streak, h.TotalEntries)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Commands) dashboard(ctx context.Context) string {
	in, err := c.service.DashboardInsights(ctx)
	if err != nil {
		return "Failed to build insights."
	}
	if in.IsEmpty() {
		return "Start logging your habits to see insights."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", in.OverallConsistency.Message)
	fmt.Fprintf(&sb, "Habits analyzed: %d\n", in.HabitsAnalyzed)
	if in.RiskAlerts != nil && in.RiskAlerts.Total > 0 {
		fmt.Fprintf(&sb, "Alerts: %d urgent, %d warnings\n", len(in.RiskAlerts.Urgent), len(in.RiskAlerts.Warnings))
	}
	if in.MotivationalInsight != nil {
		sb.WriteString(in.MotivationalInsight.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Commands) log(ctx context.Context, name string) string {
	if name == "" {
		return "Usage: log <habit name>"
	}

	list, err := c.service.ListHabits(ctx)
	if err != nil {
		return "Failed to load habits."
	}
	for _, h := range list {
		if strings.EqualFold(h.Name, name) {
			result, err := c.service.AddEntry(ctx, h.ID, "", "")
			if err != nil {
				return "Failed to log entry."
			}
			return fmt.Sprintf("Logged %s for %s.", h.Name, result.Entry.Date)
		}
	}
	return fmt.Sprintf("No habit named %q.", name)
}
