// Package cron schedules the recurring dashboard jobs
package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/notify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job names
const (
	JobRiskScan = "risk_scan"
	JobStats    = "stats"
)

// Config holds cron runner configuration
type Config struct {
	RiskScan string // Schedule for the risk scan, e.g. "@every 1h"
	Stats    string // Schedule for the stats refresh
	Timeout  time.Duration
}

// Runner runs the risk scan and stats refresh on a schedule
type Runner struct {
	config    Config
	service   *habitsvc.Service
	reminder  *notify.Reminder
	broadcast func(*dashboard.Insights)
	cron      *cron.Cron
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	mu        sync.RWMutex
}

// Option configures a Runner
type Option func(*Runner)

// WithReminder sends urgent alerts found by the risk scan
func WithReminder(r *notify.Reminder) Option {
	return func(rn *Runner) { rn.reminder = r }
}

// WithBroadcast publishes every risk scan result, e.g. to websocket clients
func WithBroadcast(fn func(*dashboard.Insights)) Option {
	return func(rn *Runner) { rn.broadcast = fn }
}

// NewRunner creates a new cron runner
func NewRunner(config Config, service *habitsvc.Service, logger *zap.Logger, opts ...Option) *Runner {
	if config.RiskScan == "" {
		config.RiskScan = "@every 1h"
	}
	if config.Stats == "" {
		config.Stats = "@every 15m"
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		config:  config,
		service: service,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		cron: cron.New(
			cron.WithLocation(service.Engine().Location()),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start schedules the jobs
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("cron runner already running")
	}

	jobs := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{JobRiskScan, r.config.RiskScan, func(ctx context.Context) error { _, err := r.RunRiskScan(ctx); return err }},
		{JobStats, r.config.Stats, r.RunStatsRefresh},
	}
	for _, j := range jobs {
		if _, err := r.cron.AddFunc(j.spec, r.wrap(j.name, j.fn)); err != nil {
			return fmt.Errorf("schedule %s %q: %w", j.name, j.spec, err)
		}
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("Cron runner started",
		zap.String("risk_scan", r.config.RiskScan),
		zap.String("stats", r.config.Stats),
	)
	return nil
}

// Stop stops scheduling and waits for running jobs
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.cancel()
	<-r.cron.Stop().Done()
	r.logger.Info("Cron runner stopped")
}

// IsRunning returns whether the runner is active
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *Runner) wrap(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(r.ctx, r.config.Timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			r.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		r.logger.Debug("Scheduled job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}
}

// RunRiskScan rebuilds the dashboard insights, publishes them and sends
// reminders for urgent alerts. It returns the number of reminders sent.
func (r *Runner) RunRiskScan(ctx context.Context) (int, error) {
	in, err := r.service.RefreshInsights(ctx)
	if err != nil {
		return 0, err
	}

	if r.broadcast != nil {
		r.broadcast(in)
	}

	if r.reminder == nil {
		return 0, nil
	}

	engine := r.service.Engine()
	day := insights.DayKey(engine.Now().In(engine.Location()))
	sent := r.reminder.SendUrgent(ctx, in, day)
	if sent > 0 {
		r.logger.Info("Reminders sent", zap.Int("count", sent), zap.String("day", day))
	}
	return sent, nil
}

// RunStatsRefresh recomputes the cached dashboard statistics
func (r *Runner) RunStatsRefresh(ctx context.Context) error {
	_, err := r.service.RefreshStats(ctx)
	return err
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
