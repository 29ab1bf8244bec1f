// Package dashboard combines per-habit analyses into the cross-habit
// dashboard view and computes chart statistics.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/metrics"
	"go.uber.org/zap"
)

// Analyzer is the per-habit analysis surface the aggregator depends on.
// *insights.Engine implements it.
type Analyzer interface {
	Now() time.Time
	Location() *time.Location
	AnalyzeConsistency(entries []insights.Entry) insights.ConsistencyResult
	AnalyzeStrength(entries []insights.Entry) insights.StrengthResult
	AnalyzeTrends(entries []insights.Entry) insights.TrendResult
	RecognizeAchievements(entries []insights.Entry) insights.AchievementResult
	AnalyzePredictions(entries []insights.Entry, habit insights.Habit) insights.PredictionResult
}

// Aggregator builds dashboard insights across habits
type Aggregator struct {
	analyzer      Analyzer
	logger        *zap.Logger
	metrics       *metrics.Metrics
	maxConcurrent int
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithMetrics records analyses and build latency into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithMaxConcurrent bounds how many habits are analyzed at once
func WithMaxConcurrent(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrent = n
		}
	}
}

// NewAggregator creates an aggregator over the given analyzer
func NewAggregator(analyzer Analyzer, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		analyzer:      analyzer,
		logger:        logger,
		metrics:       metrics.Default(),
		maxConcurrent: 8,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build analyzes every habit that has entries and rolls the results up.
// A habit whose analysis fails is logged and left out.
func (a *Aggregator) Build(ctx context.Context, habits []insights.Habit, entries []insights.Entry) *Insights {
	start := time.Now()

	if len(habits) == 0 || len(entries) == 0 {
		return a.stamp(Empty())
	}

	valid, dropped := a.LoadAll(ctx, habits, entries)
	a.metrics.RecordDashboardBuild(time.Since(start), dropped)

	if len(valid) == 0 {
		return a.stamp(Empty())
	}

	for _, hi := range valid {
		for _, alert := range hi.Predictions.Alerts {
			a.metrics.RecordAlert(string(alert.Type))
		}
	}

	out := Aggregate(valid)
	a.logger.Debug("Dashboard insights built",
		zap.Int("habits", len(habits)),
		zap.Int("analyzed", len(valid)),
		zap.Int("dropped", dropped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a.stamp(out)
}

func (a *Aggregator) stamp(in *Insights) *Insights {
	in.GeneratedAt = a.analyzer.Now()
	return in
}

// Aggregate rolls up already loaded habit bundles. It is pure and returns
// Empty() for no bundles.
func Aggregate(valid []HabitInsight) *Insights {
	if len(valid) == 0 {
		return Empty()
	}
	return &Insights{
		OverallConsistency:     summarizeConsistency(valid),
		OverallStrength:        summarizeStrength(valid),
		OverallTrends:          summarizeTrends(valid),
		TotalAchievements:      summarizeAchievements(valid),
		RiskAlerts:             summarizeAlerts(valid),
		MotivationalInsight:    overallMotivation(valid),
		TopPerformingHabits:    topPerforming(valid, topPerformingLimit),
		HabitsNeedingAttention: needingAttention(valid, attentionLimit),
		HabitsAnalyzed:         len(valid),
	}
}

// GroupEntries splits entries by habit ID, each habit getting its own slice
func GroupEntries(entries []insights.Entry) map[string][]insights.Entry {
	byHabit := make(map[string][]insights.Entry)
	for _, e := range entries {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
	}
	return byHabit
}

// LoadAll runs the per-habit bundles concurrently. Results keep the order of
// habits; dropped counts habits whose bundle failed or never started.
func (a *Aggregator) LoadAll(ctx context.Context, habits []insights.Habit, entries []insights.Entry) (valid []HabitInsight, dropped int) {
	byHabit := GroupEntries(entries)
	results := make([]*HabitInsight, len(habits))
	sem := make(chan struct{}, a.maxConcurrent)

	var wg sync.WaitGroup
	for i, habit := range habits {
		habitEntries := byHabit[habit.ID]
		if len(habitEntries) == 0 {
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			a.logger.Warn("Dashboard build cancelled",
				zap.String("habit_id", habit.ID),
				zap.Error(ctx.Err()),
			)
			continue
		}

		wg.Add(1)
		go func(i int, habit insights.Habit, habitEntries []insights.Entry) {
			defer wg.Done()
			defer func() { <-sem }()

			hi, err := a.LoadHabit(habit, habitEntries)
			if err != nil {
				a.logger.Error("Failed to analyze habit",
					zap.String("habit_id", habit.ID),
					zap.String("habit", habit.Name),
					zap.Error(err),
				)
				return
			}
			results[i] = hi
		}(i, habit, habitEntries)
	}
	wg.Wait()

	for i, hi := range results {
		if hi != nil {
			valid = append(valid, *hi)
		} else if len(byHabit[habits[i].ID]) > 0 {
			dropped++
		}
	}
	return valid, dropped
}
