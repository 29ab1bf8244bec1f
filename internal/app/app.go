// Package app wires the store, services, bots, scheduler and API together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gmsas95/habitlens/internal/api"
	"github.com/gmsas95/habitlens/internal/channels"
	"github.com/gmsas95/habitlens/internal/channels/discord"
	"github.com/gmsas95/habitlens/internal/channels/telegram"
	"github.com/gmsas95/habitlens/internal/config"
	"github.com/gmsas95/habitlens/internal/cron"
	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gmsas95/habitlens/internal/notify"
	"github.com/gmsas95/habitlens/internal/security"
	"github.com/gmsas95/habitlens/internal/skills"
	"github.com/gmsas95/habitlens/internal/store"
	"go.uber.org/zap"
)

type App struct {
	Config         *config.Config
	Store          *store.Store
	Service        *habitsvc.Service
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	SkillsRegistry *skills.Registry
	Notifier       *notify.Multi
	TelegramBot    *telegram.Bot
	DiscordBot     *discord.Bot
	CronRunner     *cron.Runner
	Version        string
}

// New opens the store described by cfg and builds the application
func New(cfg *config.Config, logger *zap.Logger, version string) (*App, error) {
	st, err := store.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, st, logger, version), nil
}

// NewWithStore builds the application around an open store
func NewWithStore(cfg *config.Config, st *store.Store, logger *zap.Logger, version string) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := metrics.Default()

	engine := insights.NewEngine(logger, insights.WithLocation(cfg.Location()))
	aggregator := dashboard.NewAggregator(engine, logger,
		dashboard.WithMetrics(m),
		dashboard.WithMaxConcurrent(cfg.Analytics.MaxConcurrent),
	)
	service := habitsvc.NewService(st, engine, logger,
		habitsvc.WithMetrics(m),
		habitsvc.WithAggregator(aggregator),
	)

	registry := skills.NewRegistry(m, logger)
	RegisterSkills(registry, service, logger)

	return &App{
		Config:         cfg,
		Store:          st,
		Service:        service,
		Metrics:        m,
		Logger:         logger,
		SkillsRegistry: registry,
		Version:        version,
	}
}

// Close releases the store
func (app *App) Close() error {
	if app.Store == nil {
		return nil
	}
	return app.Store.Close()
}

// SetupNotifiers builds the reminder channels that are configured. Bots that
// fail to start are logged and skipped.
func (app *App) SetupNotifiers() *notify.Multi {
	cfg := app.Config.Notify
	commands := channels.NewCommands(app.Service)

	var notifiers []notify.Notifier

	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Webhook, app.Logger))
	}

	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(telegram.Config{
			Token:   cfg.Telegram.BotToken,
			ChatIDs: cfg.Telegram.ChatIDs,
		}, commands, app.Logger)
		if err != nil {
			app.Logger.Error("Failed to create Telegram bot", security.ErrorField(err))
		} else {
			app.TelegramBot = bot
			notifiers = append(notifiers, bot)
		}
	}

	if cfg.Discord.Enabled {
		bot, err := discord.NewBot(discord.Config{
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
		}, commands, app.Logger)
		if err != nil {
			app.Logger.Error("Failed to create Discord bot", security.ErrorField(err))
		} else {
			app.DiscordBot = bot
			notifiers = append(notifiers, bot)
		}
	}

	app.Notifier = notify.NewMulti(app.Logger, app.Metrics, notifiers...)
	return app.Notifier
}

// RunServer starts the bots, the scheduler and the API, and blocks until ctx
// is cancelled or the listener fails
func (app *App) RunServer(ctx context.Context) error {
	server := api.New(app.Config, app.Service, app.Logger,
		api.WithSkills(app.SkillsRegistry),
		api.WithMetrics(app.Metrics),
		api.WithVersion(app.Version),
		api.WithImporter(app.ImportDir(), app.ImportLegacy),
	)

	notifier := app.SetupNotifiers()

	if app.TelegramBot != nil {
		if err := app.TelegramBot.Start(); err != nil {
			app.Logger.Error("Failed to start Telegram bot", security.ErrorField(err))
		} else {
			app.Logger.Info("Telegram bot started")
		}
	}
	if app.DiscordBot != nil {
		if err := app.DiscordBot.Start(); err != nil {
			app.Logger.Error("Failed to start Discord bot", security.ErrorField(err))
		}
	}

	if app.Config.Scheduler.Enabled {
		opts := []cron.Option{cron.WithBroadcast(server.Hub().BroadcastInsights)}
		if notifier.Len() > 0 {
			opts = append(opts, cron.WithReminder(notify.NewReminder(notifier, app.markerFor(), app.Logger)))
		}
		app.CronRunner = cron.NewRunner(cron.Config{
			RiskScan: app.Config.Scheduler.RiskScan,
			Stats:    app.Config.Scheduler.Stats,
		}, app.Service, app.Logger, opts...)
		if err := app.CronRunner.Start(); err != nil {
			app.Logger.Error("Failed to start cron runner", zap.Error(err))
			app.CronRunner = nil
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	app.Logger.Info("Server started",
		zap.String("address", app.Config.ListenAddr()),
		zap.String("version", app.Version),
		zap.Int("notifiers", notifier.Len()),
	)

	for _, skill := range app.SkillsRegistry.ListSkills() {
		app.Logger.Info("Skill",
			zap.String("name", skill.Name()),
			zap.String("version", skill.Version()),
			zap.Int("tools", len(skill.Tools())),
		)
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.Logger.Info("Shutting down...")
	case runErr = <-errCh:
		if runErr != nil {
			runErr = fmt.Errorf("server: %w", runErr)
		}
	}

	app.shutdown(server)
	return runErr
}

func (app *App) markerFor() notify.Marker {
	if c := app.Store.Cache(); c != nil {
		return c
	}
	return notify.NewMemoryMarker()
}

func (app *App) shutdown(server *api.Server) {
	if app.CronRunner != nil {
		app.CronRunner.Stop()
	}
	if app.TelegramBot != nil {
		app.TelegramBot.Stop()
	}
	if app.DiscordBot != nil {
		if err := app.DiscordBot.Stop(); err != nil {
			app.Logger.Warn("Discord shutdown error", zap.Error(err))
		}
	}
	if err := server.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error("Server shutdown error", zap.Error(err))
	}
}

// ImportDir is where blobs uploaded for POST /api/import are read from
func (app *App) ImportDir() string {
	return filepath.Join(app.Config.Storage.DataDir, "imports")
}

// ImportLegacy imports a legacy app blob and refreshes the dashboard
func (app *App) ImportLegacy(ctx context.Context, path string) (*store.ImportResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	result, err := app.Store.ImportFile(ctx, path, app.Config.Location())
	if err != nil {
		return nil, err
	}
	if _, err := app.Service.RefreshInsights(ctx); err != nil {
		app.Logger.Warn("Failed to refresh insights after import", zap.Error(err))
	}
	return result, nil
}
