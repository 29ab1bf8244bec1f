// Package habits exposes habit tracking as registry tools.
package habits

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/skills"
	"go.uber.org/zap"
)

// HabitsSkill provides habit tracking tools
type HabitsSkill struct {
	*skills.BaseSkill
	service *habitsvc.Service
	logger  *zap.Logger
}

// NewHabitsSkill creates the habits skill
func NewHabitsSkill(service *habitsvc.Service, logger *zap.Logger) *HabitsSkill {
	if logger == nil {
		logger = zap.NewNop()
	}
	skill := &HabitsSkill{
		BaseSkill: skills.NewBaseSkill("habits", "Habit Tracking and Insights", "1.0.0"),
		service:   service,
		logger:    logger,
	}

	skill.registerTools()
	return skill
}

func habitRef() map[string]interface{} {
	return map[string]interface{}{
		"habit_id": map[string]interface{}{
			"type":        "string",
			"description": "ID of the habit",
		},
		"habit_name": map[string]interface{}{
			"type":        "string",
			"description": "Name of the habit, used when habit_id is not given (case-insensitive)",
		},
	}
}

func (h *HabitsSkill) registerTools() {
	logProps := habitRef()
	logProps["photo"] = map[string]interface{}{
		"type":        "string",
		"description": "Photo URI of the check-in",
	}
	logProps["note"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional note",
	}

	insightProps := habitRef()
	insightProps["section"] = map[string]interface{}{
		"type":        "string",
		"enum":        insights.ReportSections,
		"description": "Which part of the report to return (default: all)",
	}

	tools := []skills.Tool{
		{
			Name:        "list_habits",
			Description: "List tracked habits with their current streak and entry count",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "log_entry",
			Description: "Record today's check-in for a habit. A second check-in on the same day replaces the first.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": logProps,
			},
		},
		{
			Name:        "get_habit_insights",
			Description: "Analyze one habit: consistency, progress, patterns, predictions, trends, strength, achievements, motivation and suggestions",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": insightProps,
			},
		},
		{
			Name:        "get_dashboard",
			Description: "Get cross-habit insights: overall consistency and strength, trends, alerts, top performers and habits needing attention",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"include_stats": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return dashboard statistics",
					},
				},
			},
		},
		{
			Name:        "suggest_habits",
			Description: "Suggest new habits based on the ones already tracked",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum suggestions to return (default: 12)",
					},
				},
			},
		},
	}

	for _, tool := range tools {
		tool.Handler = h.handleTool(tool.Name)
		h.AddTool(tool)
	}
}

func (h *HabitsSkill) handleTool(name string) skills.ToolHandler {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		switch name {
		case "list_habits":
			return h.handleListHabits(ctx, args)
		case "log_entry":
			return h.handleLogEntry(ctx, args)
		case "get_habit_insights":
			return h.handleGetInsights(ctx, args)
		case "get_dashboard":
			return h.handleGetDashboard(ctx, args)
		case "suggest_habits":
			return h.handleSuggest(ctx, args)
		default:
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
	}
}

// resolveHabit finds the habit named by habit_id or habit_name
func (h *HabitsSkill) resolveHabit(ctx context.Context, args map[string]interface{}) (string, error) {
	if id := skills.StringArg(args, "habit_id", ""); id != "" {
		return id, nil
	}

	name := strings.TrimSpace(skills.StringArg(args, "habit_name", ""))
	if name == "" {
		return "", apperrors.New(apperrors.ErrBadRequest.Code, "habit_id or habit_name is required")
	}

	list, err := h.service.ListHabits(ctx)
	if err != nil {
		return "", err
	}
	for _, habit := range list {
		if strings.EqualFold(habit.Name, name) {
			return habit.ID, nil
		}
	}
	return "", apperrors.ErrHabitNotFound
}

func (h *HabitsSkill) handleListHabits(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	list, err := h.service.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"habits": list,
		"count":  len(list),
	}, nil
}

func (h *HabitsSkill) handleLogEntry(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	habitID, err := h.resolveHabit(ctx, args)
	if err != nil {
		return nil, err
	}

	result, err := h.service.AddEntry(ctx, habitID,
		skills.StringArg(args, "photo", ""),
		skills.StringArg(args, "note", ""),
	)
	if err != nil {
		return nil, err
	}

	resp := map[string]interface{}{
		"success":  true,
		"entry_id": result.Entry.ID,
		"habit_id": habitID,
		"date":     result.Entry.Date,
		"quality":  result.Quality,
		"message":  fmt.Sprintf("Logged %s", result.Entry.Date),
	}
	if c := result.Entry.Classification(); c != nil {
		resp["category"] = c.Category
		resp["tags"] = c.Tags
	}

	h.logger.Info("Entry logged via tool", zap.String("habit_id", habitID))
	return resp, nil
}

func (h *HabitsSkill) handleGetInsights(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	habitID, err := h.resolveHabit(ctx, args)
	if err != nil {
		return nil, err
	}

	report, err := h.service.HabitInsights(ctx, habitID)
	if err != nil {
		return nil, err
	}

	section := skills.StringArg(args, "section", "all")
	part, ok := report.Section(section)
	if !ok {
		return nil, apperrors.New(apperrors.ErrBadRequest.Code, fmt.Sprintf("unknown section: %s", section))
	}
	return part, nil
}

func (h *HabitsSkill) handleGetDashboard(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	in, err := h.service.DashboardInsights(ctx)
	if err != nil {
		return nil, err
	}

	resp := map[string]interface{}{"insights": in}
	if skills.BoolArg(args, "include_stats", false) {
		stats, err := h.service.DashboardStats(ctx)
		if err != nil {
			return nil, err
		}
		resp["stats"] = stats
	}
	return resp, nil
}

func (h *HabitsSkill) handleSuggest(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	suggestions, err := h.service.Suggestions(ctx)
	if err != nil {
		return nil, err
	}
	if limit := skills.IntArg(args, "limit", 0); limit > 0 && limit < len(suggestions) {
		suggestions = suggestions[:limit]
	}
	return map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	}, nil
}
