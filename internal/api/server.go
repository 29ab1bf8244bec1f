package api

import (
	"context"
	"errors"
	"time"

	"github.com/gmsas95/habitlens/internal/config"
	apperrors "github.com/gmsas95/habitlens/internal/errors"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gmsas95/habitlens/internal/security"
	"github.com/gmsas95/habitlens/internal/skills"
	"github.com/gmsas95/habitlens/internal/store"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server handles the HTTP API and the dashboard websocket
type Server struct {
	app     *fiber.App
	config  *config.Config
	service *habitsvc.Service
	skills  *skills.Registry
	metrics *metrics.Metrics
	hub     *Hub
	limiter *rate.Limiter
	logger  *zap.Logger
	version string

	importDir string
	importer  Importer
}

// Importer loads a legacy blob from a resolved path
type Importer func(ctx context.Context, path string) (*store.ImportResult, error)

// Option configures a Server
type Option func(*Server)

// WithSkills exposes the tool registry under /api/tools
func WithSkills(r *skills.Registry) Option {
	return func(s *Server) { s.skills = r }
}

// WithMetrics sets the metrics sink; defaults to metrics.Default()
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /api/health
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithImporter enables POST /api/import for files under dir
func WithImporter(dir string, fn Importer) Option {
	return func(s *Server) {
		s.importDir = dir
		s.importer = fn
	}
}

// New creates a new API server
func New(cfg *config.Config, service *habitsvc.Service, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:  cfg,
		service: service,
		metrics: metrics.Default(),
		logger:  logger,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Server.RateLimit > 0 {
		burst := cfg.Server.RateBurst
		if burst <= 0 {
			burst = int(cfg.Server.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), burst)
	}

	s.hub = NewHub(s.metrics, logger)
	service.Subscribe(func(habitsvc.Event) {
		if s.hub.Len() > 0 {
			go s.pushDashboard()
		}
	})

	s.app = fiber.New(fiber.Config{
		AppName:               "habitlens",
		DisableStartupMessage: true,
		ReadTimeout:           seconds(cfg.Server.ReadTimeout, 30),
		WriteTimeout:          seconds(cfg.Server.WriteTimeout, 30),
		IdleTimeout:           seconds(cfg.Server.IdleTimeout, 120),
		ErrorHandler:          s.errorHandler,
	})

	s.setupRoutes()
	return s
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Hub returns the websocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start listens on the configured address
func (s *Server) Start() error {
	return s.app.Listen(s.config.ListenAddr())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) pushDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	in, err := s.service.DashboardInsights(ctx)
	if err != nil {
		s.logger.Warn("Failed to build dashboard for push", zap.Error(err))
		return
	}
	s.hub.BroadcastInsights(in)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	return s.fail(c, err)
}

// fail writes an AppError as a JSON response with the mapped status
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			security.ErrorField(err),
		)
	}
	return c.Status(status).JSON(ErrorResponse{
		Error: apperrors.PublicMessage(err),
		Code:  apperrors.GetCode(err),
	})
}
