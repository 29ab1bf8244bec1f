package api

import (
	"strings"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	if s.config.Logging.Development {
		s.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Security.AllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	s.app.Get("/api/metrics", s.handleMetricsJSON)

	api := s.app.Group("/api", s.metricsMiddleware(), s.rateLimitMiddleware())

	api.Post("/auth/login", s.handleLogin)

	protected := api.Use(s.authMiddleware())

	protected.Get("/habits", s.handleListHabits)
	protected.Post("/habits", s.handleCreateHabit)
	protected.Get("/habits/:id", s.handleGetHabit)
	protected.Put("/habits/:id", s.handleUpdateHabit)
	protected.Delete("/habits/:id", s.handleDeleteHabit)

	protected.Get("/habits/:id/entries", s.handleListEntries)
	protected.Post("/habits/:id/entries", s.handleAddEntry)
	protected.Get("/habits/:id/today", s.handleEntryToday)
	protected.Delete("/entries/:id", s.handleDeleteEntry)

	protected.Get("/habits/:id/insights", s.handleHabitInsights)
	protected.Get("/dashboard/insights", s.handleDashboardInsights)
	protected.Get("/dashboard/stats", s.handleDashboardStats)
	protected.Get("/suggestions", s.handleSuggestions)

	protected.Post("/import", s.handleImport)

	protected.Get("/tools", s.handleListTools)
	protected.Post("/tools/execute", s.handleExecuteTool)

	s.app.Get("/ws", s.wsAuthMiddleware(), websocket.New(s.handleWebSocket))
}
