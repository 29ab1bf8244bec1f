// Package habits implements habit and entry management on top of the store
// and the insights engine.
package habits

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gmsas95/habitlens/internal/catalog"
	"github.com/gmsas95/habitlens/internal/classify"
	"github.com/gmsas95/habitlens/internal/dashboard"
	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gmsas95/habitlens/internal/store"
	"go.uber.org/zap"
)

// HabitInput is the user-editable part of a habit
type HabitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Summary is a habit with its streak and latest entry
type Summary struct {
	store.Habit
	Streak          int    `json:"streak"`
	TotalEntries    int    `json:"totalEntries"`
	LatestPhoto     string `json:"latestPhoto,omitempty"`
	LatestPhotoDate string `json:"latestPhotoDate,omitempty"`
}

// EntryResult is a recorded entry with the photo assessment
type EntryResult struct {
	Entry   *store.Entry     `json:"entry"`
	Quality classify.Quality `json:"quality"`
}

// Event types
const (
	EventHabitChanged = "habit"
	EventEntryChanged = "entry"
)

// Event describes a write that changes the dashboard
type Event struct {
	Type    string `json:"type"`
	HabitID string `json:"habitId"`
}

// Service manages habits and entries
type Service struct {
	store      *store.Store
	engine     *insights.Engine
	aggregator *dashboard.Aggregator
	metrics    *metrics.Metrics
	logger     *zap.Logger

	mu          sync.RWMutex
	subscribers []func(Event)
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records entry creation into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithAggregator replaces the dashboard aggregator
func WithAggregator(a *dashboard.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// NewService creates a habit service
func NewService(st *store.Store, engine *insights.Engine, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:   st,
		engine:  engine,
		metrics: metrics.Default(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.aggregator == nil {
		s.aggregator = dashboard.NewAggregator(engine, logger, dashboard.WithMetrics(s.metrics))
	}
	return s
}

// Engine returns the insights engine
func (s *Service) Engine() *insights.Engine {
	return s.engine
}

// Subscribe registers fn to be called after every write
func (s *Service) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Service) changed(ev Event) {
	if c := s.store.Cache(); c != nil {
		if err := c.InvalidateDashboard(); err != nil {
			s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	s.mu.RLock()
	subs := append([]func(Event){}, s.subscribers...)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// ==================== Habits ====================

// CreateHabit validates and stores a new habit
func (s *Service) CreateHabit(ctx context.Context, in HabitInput) (*store.Habit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	color := in.Color
	if color == "" {
		existing, err := s.store.ListHabits(ctx)
		if err != nil {
			return nil, err
		}
		color = Palette[len(existing)%len(Palette)]
	}

	now := s.engine.Now()
	habit := &store.Habit{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Color:       color,
		Icon:        in.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}

	s.logger.Info("Habit created", zap.String("habit_id", habit.ID), zap.String("name", habit.Name))
	s.changed(Event{Type: EventHabitChanged, HabitID: habit.ID})
	return habit, nil
}

// UpdateHabit replaces the editable fields of a habit
func (s *Service) UpdateHabit(ctx context.Context, id string, in HabitInput) (*store.Habit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}

	habit.Name = strings.TrimSpace(in.Name)
	habit.Description = in.Description
	if in.Color != "" {
		habit.Color = in.Color
	}
	if in.Icon != "" {
		habit.Icon = in.Icon
	}
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}

	s.changed(Event{Type: EventHabitChanged, HabitID: id})
	return s.store.GetHabit(ctx, id)
}

// DeleteHabit removes a habit and its entries
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Habit deleted", zap.String("habit_id", id))
	s.changed(Event{Type: EventHabitChanged, HabitID: id})
	return nil
}

// GetHabit returns one habit with its streak and entry count
func (s *Service) GetHabit(ctx context.Context, id string) (*Summary, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := s.summarize(*habit, entries)
	return &sum, nil
}

// ListHabits returns every habit with its streak and latest photo
func (s *Service) ListHabits(ctx context.Context) ([]Summary, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.AllEntries(ctx)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]store.Entry, len(habits))
	for _, e := range entries {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
	}

	out := make([]Summary, len(habits))
	for i, h := range habits {
		out[i] = s.summarize(h, byHabit[h.ID])
	}
	return out, nil
}

func (s *Service) summarize(h store.Habit, entries []store.Entry) Summary {
	loc := s.engine.Location()
	converted := store.EntriesToInsights(entries)

	sum := Summary{
		Habit:        h,
		Streak:       insights.StrictStreak(converted, s.engine.Now().In(loc)),
		TotalEntries: len(entries),
	}
	if latest := insights.SortByInstant(converted, true, loc); len(latest) > 0 {
		sum.LatestPhoto = latest[0].Photo
		sum.LatestPhotoDate = latest[0].Date
	}
	return sum
}

// ==================== Entries ====================

// AddEntry records today's entry for a habit, replacing an earlier one from
// the same day. The entry is classified from the habit name.
func (s *Service) AddEntry(ctx context.Context, habitID, photo, note string) (*EntryResult, error) {
	if err := ValidateEntry(photo, note); err != nil {
		return nil, err
	}

	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}

	now := s.engine.Now().In(s.engine.Location())
	entry := &store.Entry{
		HabitID:   habitID,
		Date:      insights.DayKey(now),
		Photo:     photo,
		Note:      note,
		CreatedAt: now,
	}
	entry.SetClassification(s.classify(habit.Name, now))

	if err := s.store.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.RecordEntryCreated()
	s.logger.Info("Entry recorded",
		zap.String("habit_id", habitID),
		zap.String("entry_id", entry.ID),
		zap.String("date", entry.Date),
	)
	s.changed(Event{Type: EventEntryChanged, HabitID: habitID})

	return &EntryResult{Entry: entry, Quality: classify.AssessQuality(photo)}, nil
}

// classify never fails the entry; a panic yields no classification
func (s *Service) classify(name string, at time.Time) (c *insights.Classification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Classification failed", zap.String("habit", name), zap.Any("panic", r))
			c = nil
		}
	}()

	result := classify.Classify(name)
	return &insights.Classification{
		Category:     result.Category,
		CategoryName: result.CategoryName,
		Confidence:   result.Confidence,
		Tags:         classify.Tags(result.Category, at),
	}
}

// ListEntries returns a habit's entries, newest day first
func (s *Service) ListEntries(ctx context.Context, habitID string) ([]store.Entry, error) {
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, habitID)
}

// DeleteEntry removes one entry
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.changed(Event{Type: EventEntryChanged, HabitID: entry.HabitID})
	return nil
}

// HasEntryToday reports whether the habit was already tracked today
func (s *Service) HasEntryToday(ctx context.Context, habitID string) (bool, error) {
	today := insights.DayKey(s.engine.Now().In(s.engine.Location()))
	return s.store.HasEntryOn(ctx, habitID, today)
}

// ==================== Insights ====================

// HabitInsights runs every analyzer over one habit
func (s *Service) HabitInsights(ctx context.Context, habitID string) (*insights.HabitReport, error) {
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, habitID)
	if err != nil {
		return nil, err
	}
	return s.engine.Analyze(habit.Insight(), store.EntriesToInsights(entries)), nil
}

// DashboardInsights returns the cached cross-habit insights, building them
// on a miss
func (s *Service) DashboardInsights(ctx context.Context) (*dashboard.Insights, error) {
	if c := s.store.Cache(); c != nil {
		var cached dashboard.Insights
		err := c.Get(store.KeyDashboardInsights, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, apperrors.ErrCacheMiss) {
			s.logger.Warn("Failed to read dashboard cache", zap.Error(err))
		}
	}
	return s.RefreshInsights(ctx)
}

// RefreshInsights rebuilds and caches the cross-habit insights
func (s *Service) RefreshInsights(ctx context.Context) (*dashboard.Insights, error) {
	habits, entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := s.aggregator.Build(ctx, habits, entries)
	s.cache(store.KeyDashboardInsights, result)
	return result, nil
}

// DashboardStats returns the cached dashboard statistics, computing them on
// a miss
func (s *Service) DashboardStats(ctx context.Context) (*dashboard.Stats, error) {
	if c := s.store.Cache(); c != nil {
		var cached dashboard.Stats
		if err := c.Get(store.KeyDashboardStats, &cached); err == nil {
			return &cached, nil
		}
	}
	return s.RefreshStats(ctx)
}

// RefreshStats recomputes and caches the dashboard statistics
func (s *Service) RefreshStats(ctx context.Context) (*dashboard.Stats, error) {
	habits, entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := s.aggregator.Stats(habits, entries)
	s.cache(store.KeyDashboardStats, result)
	return result, nil
}

func (s *Service) cache(key string, v any) {
	c := s.store.Cache()
	if c == nil {
		return
	}
	if err := c.Put(key, v); err != nil {
		s.logger.Warn("Failed to cache snapshot", zap.String("key", key), zap.Error(err))
	}
}

// Suggestions proposes new habits based on the ones already tracked
func (s *Service) Suggestions(ctx context.Context) ([]catalog.Suggestion, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(habits))
	for i, h := range habits {
		names[i] = h.Name
	}
	return catalog.Suggest(names), nil
}
