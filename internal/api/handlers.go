package api

import (
	"fmt"
	"os"
	"time"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/security"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   s.version,
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleMetricsJSON(c *fiber.Ctx) error {
	return c.JSON(s.metrics.Snapshot())
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.ErrBadRequest)
	}

	resp, err := s.issueToken(req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

// ==================== Habits ====================

func (s *Server) handleListHabits(c *fiber.Ctx) error {
	list, err := s.service.ListHabits(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(list)
}

func (s *Server) handleCreateHabit(c *fiber.Ctx) error {
	var req habitsvc.HabitInput
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.ErrBadRequest)
	}

	habit, err := s.service.CreateHabit(c.UserContext(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (s *Server) handleGetHabit(c *fiber.Ctx) error {
	habit, err := s.service.GetHabit(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(habit)
}

func (s *Server) handleUpdateHabit(c *fiber.Ctx) error {
	var req habitsvc.HabitInput
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.ErrBadRequest)
	}

	habit, err := s.service.UpdateHabit(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(habit)
}

func (s *Server) handleDeleteHabit(c *fiber.Ctx) error {
	if err := s.service.DeleteHabit(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ==================== Entries ====================

func (s *Server) handleListEntries(c *fiber.Ctx) error {
	entries, err := s.service.ListEntries(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(entries)
}

func (s *Server) handleAddEntry(c *fiber.Ctx) error {
	var req EntryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return s.fail(c, apperrors.ErrBadRequest)
		}
	}

	result, err := s.service.AddEntry(c.UserContext(), c.Params("id"), req.Photo, req.Note)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (s *Server) handleEntryToday(c *fiber.Ctx) error {
	done, err := s.service.HasEntryToday(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"tracked": done})
}

func (s *Server) handleDeleteEntry(c *fiber.Ctx) error {
	if err := s.service.DeleteEntry(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ==================== Insights ====================

func (s *Server) handleHabitInsights(c *fiber.Ctx) error {
	report, err := s.service.HabitInsights(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	section := c.Query("section", "all")
	part, ok := report.Section(section)
	if !ok {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, fmt.Sprintf("unknown section: %s", section)))
	}
	return c.JSON(part)
}

func (s *Server) handleDashboardInsights(c *fiber.Ctx) error {
	load := s.service.DashboardInsights
	if c.QueryBool("refresh", false) {
		load = s.service.RefreshInsights
	}

	in, err := load(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(in)
}

func (s *Server) handleDashboardStats(c *fiber.Ctx) error {
	load := s.service.DashboardStats
	if c.QueryBool("refresh", false) {
		load = s.service.RefreshStats
	}

	stats, err := load(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(stats)
}

func (s *Server) handleSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.service.Suggestions(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(suggestions)
}

// ==================== Tools ====================

func (s *Server) handleListTools(c *fiber.Ctx) error {
	if s.skills == nil {
		return c.JSON([]interface{}{})
	}
	return c.JSON(s.skills.GetToolDefinitions())
}

func (s *Server) handleExecuteTool(c *fiber.Ctx) error {
	if s.skills == nil {
		return s.fail(c, apperrors.ErrSkillNotFound)
	}

	var req ToolRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "tool name is required"))
	}

	result, err := s.skills.ExecuteTool(c.UserContext(), req.Name, req.Args)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"result": result})
}

// handleImport loads a legacy blob that was dropped into the import directory
func (s *Server) handleImport(c *fiber.Ctx) error {
	if s.importer == nil {
		return s.fail(c, apperrors.New(apperrors.ErrNotFound.Code, "import is not enabled"))
	}

	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "invalid request body"))
	}

	path, err := security.ResolveInDir(req.File, s.importDir)
	if err != nil {
		s.logger.Warn("Rejected import path", zap.String("file", req.File), zap.Error(err))
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "invalid import file", err))
	}
	if _, err := os.Stat(path); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrNotFound.Code, "import file not found", err))
	}

	result, err := s.importer(c.UserContext(), path)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(result)
}
