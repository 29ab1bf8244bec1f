// Package insights turns a habit's entry history into consistency, pattern,
// trend, strength, prediction, achievement and motivation reports.
//
// All analyzers are pure functions of the entries and the engine clock. They
// never return errors: insufficient or malformed input yields a default result.
package insights

import (
	"time"

	"go.uber.org/zap"
)

// Clock supplies the current time
type Clock func() time.Time

// Engine runs the per-habit analyzers
type Engine struct {
	now    Clock
	loc    *time.Location
	logger *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock fixes the engine's notion of now
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithLocation sets the time zone used for calendar and hour-of-day bucketing
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine creates an analytics engine
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		now:    time.Now,
		loc:    time.Local,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock in the engine location
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Location returns the engine time zone
func (e *Engine) Location() *time.Location {
	return e.loc
}

// usable copies entries, dropping those without any usable time.
func (e *Engine) usable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, en := range entries {
		if en.Instant(e.loc).IsZero() {
			continue
		}
		out = append(out, en)
	}
	if dropped := len(entries) - len(out); dropped > 0 {
		e.logger.Debug("Skipping entries without a usable time", zap.Int("count", dropped))
	}
	return out
}

// HabitReport bundles every per-habit analysis
type HabitReport struct {
	Habit        Habit             `json:"habit"`
	Consistency  ConsistencyResult `json:"consistency"`
	Progress     ProgressResult    `json:"progress"`
	Patterns     PatternResult     `json:"patterns"`
	Predictions  PredictionResult  `json:"predictions"`
	Trends       TrendResult       `json:"trends"`
	Strength     StrengthResult    `json:"strength"`
	Achievements AchievementResult `json:"achievements"`
	Motivation   MotivationResult  `json:"motivation"`
	Suggestions  []Suggestion      `json:"suggestions"`
	Streak       int               `json:"streak"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// Analyze runs the full analyzer set for one habit
func (e *Engine) Analyze(habit Habit, entries []Entry) *HabitReport {
	now := e.Now()
	return &HabitReport{
		Habit:        habit,
		Consistency:  e.AnalyzeConsistency(entries),
		Progress:     e.AnalyzeProgress(entries),
		Patterns:     e.AnalyzePatterns(entries),
		Predictions:  e.AnalyzePredictions(entries, habit),
		Trends:       e.AnalyzeTrends(entries),
		Strength:     e.AnalyzeStrength(entries),
		Achievements: e.RecognizeAchievements(entries),
		Motivation:   e.GenerateMotivation(entries, habit),
		Suggestions:  e.GenerateSuggestions(habit, entries),
		Streak:       StrictStreak(e.usable(entries), now),
		GeneratedAt:  now,
	}
}

// ReportSections names the parts of a HabitReport that Section accepts
var ReportSections = []string{"all", "consistency", "progress", "patterns", "predictions", "trends", "strength", "achievements", "motivation", "suggestions"}

// Section returns one part of the report by name. "all" and "" return the
// whole report.
func (r *HabitReport) Section(name string) (interface{}, bool) {
	switch name {
	case "all", "":
		return r, true
	case "consistency":
		return r.Consistency, true
	case "progress":
		return r.Progress, true
	case "patterns":
		return r.Patterns, true
	case "predictions":
		return r.Predictions, true
	case "trends":
		return r.Trends, true
	case "strength":
		return r.Strength, true
	case "achievements":
		return r.Achievements, true
	case "motivation":
		return r.Motivation, true
	case "suggestions":
		return r.Suggestions, true
	}
	return nil, false
}
