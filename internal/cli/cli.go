// Package cli implements the habitlens command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gmsas95/habitlens/internal/app"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/store"
	"go.uber.org/zap"
)

// Runner executes one CLI command against the application
type Runner struct {
	app    *app.App
	out    io.Writer
	format Format
}

// New creates a Runner writing to out
func New(application *app.App, out io.Writer, format Format) *Runner {
	return &Runner{app: application, out: out, format: format}
}

// Run executes command and returns the process exit code
func (r *Runner) Run(ctx context.Context, command string, args []string) int {
	if err := r.run(ctx, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

func (r *Runner) run(ctx context.Context, command string, args []string) error {
	svc := r.app.Service

	switch command {
	case "habit", "habits":
		return r.habitCommand(ctx, args)
	case "entry", "entries":
		return r.entryCommand(ctx, args)
	case "insights":
		if len(args) < 1 {
			return usage("insights <habit-id> [section]")
		}
		report, err := svc.HabitInsights(ctx, args[0])
		if err != nil {
			return err
		}
		if len(args) > 1 {
			part, ok := report.Section(args[1])
			if !ok {
				return fmt.Errorf("unknown section: %s", args[1])
			}
			return r.print(part, nil)
		}
		return r.print(report, func() (string, error) { return renderReport(r.out, report) })
	case "dashboard":
		in, err := svc.RefreshInsights(ctx)
		if err != nil {
			return err
		}
		return r.print(in, func() (string, error) { return renderDashboard(r.out, in) })
	case "stats":
		stats, err := svc.RefreshStats(ctx)
		if err != nil {
			return err
		}
		return r.print(stats, func() (string, error) { return renderStats(stats), nil })
	case "suggest":
		suggestions, err := svc.Suggestions(ctx)
		if err != nil {
			return err
		}
		return r.print(suggestions, func() (string, error) { return renderSuggestions(suggestions), nil })
	case "tools":
		return r.print(r.app.SkillsRegistry.GetToolDefinitions(), func() (string, error) {
			var sb strings.Builder
			for _, tool := range r.app.SkillsRegistry.ListTools() {
				fmt.Fprintf(&sb, "%s  %s\n", titleStyle.Render(tool.Name), tool.Description)
			}
			return sb.String(), nil
		})
	case "tool":
		if len(args) < 1 {
			return usage("tool <name> [json-args]")
		}
		var raw json.RawMessage
		if len(args) > 1 {
			raw = json.RawMessage(args[1])
		}
		result, err := r.app.SkillsRegistry.ExecuteTool(ctx, args[0], raw)
		if err != nil {
			return err
		}
		return r.print(result, nil)
	case "import":
		if len(args) < 1 {
			return usage("import <blob.json>")
		}
		result, err := r.app.ImportLegacy(ctx, args[0])
		if err != nil {
			return err
		}
		return r.print(result, func() (string, error) { return renderImport(result), nil })
	case "watch":
		if len(args) < 1 {
			return usage("watch <blob.json>")
		}
		return r.watch(ctx, args[0])
	case "tui":
		return r.runTUI(ctx)
	default:
		PrintHelp(r.out)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (r *Runner) habitCommand(ctx context.Context, args []string) error {
	svc := r.app.Service
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "add", "create":
		if len(args) < 2 {
			return usage("habit add <name> [description]")
		}
		in := habitsvc.HabitInput{Name: args[1]}
		if len(args) > 2 {
			in.Description = strings.Join(args[2:], " ")
		}
		habit, err := svc.CreateHabit(ctx, in)
		if err != nil {
			return err
		}
		return r.print(habit, func() (string, error) {
			return successStyle.Render(fmt.Sprintf("✓ Created habit %q (%s)", habit.Name, habit.ID)) + "\n", nil
		})
	case "list", "ls":
		list, err := svc.ListHabits(ctx)
		if err != nil {
			return err
		}
		return r.print(list, func() (string, error) { return renderHabits(list), nil })
	case "show":
		if len(args) < 2 {
			return usage("habit show <id>")
		}
		summary, err := svc.GetHabit(ctx, args[1])
		if err != nil {
			return err
		}
		return r.print(summary, func() (string, error) { return renderHabits([]habitsvc.Summary{*summary}), nil })
	case "delete", "rm":
		if len(args) < 2 {
			return usage("habit delete <id>")
		}
		if err := svc.DeleteHabit(ctx, args[1]); err != nil {
			return err
		}
		return r.print(map[string]string{"deleted": args[1]}, func() (string, error) {
			return successStyle.Render("✓ Deleted habit "+args[1]) + "\n", nil
		})
	default:
		return usage("habit add|list|show|delete")
	}
}

func (r *Runner) entryCommand(ctx context.Context, args []string) error {
	svc := r.app.Service
	if len(args) == 0 {
		return usage("entry add|list|delete")
	}

	switch args[0] {
	case "add", "log":
		if len(args) < 2 {
			return usage("entry add <habit-id> [photo] [note]")
		}
		var photo, note string
		if len(args) > 2 {
			photo = args[2]
		}
		if len(args) > 3 {
			note = strings.Join(args[3:], " ")
		}
		result, err := svc.AddEntry(ctx, args[1], photo, note)
		if err != nil {
			return err
		}
		return r.print(result, func() (string, error) { return renderEntryResult(result), nil })
	case "list", "ls":
		if len(args) < 2 {
			return usage("entry list <habit-id>")
		}
		entries, err := svc.ListEntries(ctx, args[1])
		if err != nil {
			return err
		}
		return r.print(entries, func() (string, error) { return renderEntries(entries), nil })
	case "delete", "rm":
		if len(args) < 2 {
			return usage("entry delete <id>")
		}
		if err := svc.DeleteEntry(ctx, args[1]); err != nil {
			return err
		}
		return r.print(map[string]string{"deleted": args[1]}, func() (string, error) {
			return successStyle.Render("✓ Deleted entry "+args[1]) + "\n", nil
		})
	default:
		return usage("entry add|list|delete")
	}
}

// watch imports the blob now and again whenever it changes, until ctx ends
func (r *Runner) watch(ctx context.Context, path string) error {
	if _, err := r.app.ImportLegacy(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "👀 Watching %s (Ctrl+C to stop)\n", path)

	err := r.app.Store.Watch(ctx, path, r.app.Config.Location(), func(result *store.ImportResult, err error) {
		if err != nil {
			r.app.Logger.Warn("Import failed", zap.String("path", path), zap.Error(err))
			return
		}
		if _, err := r.app.Service.RefreshInsights(ctx); err != nil {
			r.app.Logger.Warn("Failed to refresh insights", zap.Error(err))
		}
		fmt.Fprint(r.out, renderImport(result))
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func usage(s string) error {
	return fmt.Errorf("usage: habitlens %s", s)
}
