package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_Defaults(t *testing.T) {
	engine := NewEngine(nil)
	require.NotNil(t, engine)
	assert.Equal(t, time.Local, engine.Location())
	assert.WithinDuration(t, time.Now(), engine.Now(), time.Second)
}

func TestEngine_Analyze(t *testing.T) {
	engine := newTestEngine()

	report := engine.Analyze(testHabit, dailyEntries(7, testNow, 10))
	require.NotNil(t, report)
	assert.Equal(t, testHabit, report.Habit)
	assert.Equal(t, RatingExcellent, report.Consistency.Consistency)
	assert.True(t, report.Progress.HasProgress)
	assert.True(t, report.Patterns.HasPatterns)
	assert.True(t, report.Predictions.HasPredictions)
	assert.True(t, report.Trends.HasTrends)
	assert.Equal(t, 6, report.Achievements.TotalAchievements)
	assert.Equal(t, 7, report.Streak)
	assert.Equal(t, testNow, report.GeneratedAt)
}

func TestEngine_SkipsEntriesWithoutTime(t *testing.T) {
	engine := newTestEngine()

	entries := append(dailyEntries(2, testNow, 10), Entry{ID: "broken"}, Entry{Date: "garbage"})
	result := engine.AnalyzeProgress(entries)
	require.True(t, result.HasProgress)
	assert.Equal(t, 2, result.Metrics.TotalDays)
}

func TestEngine_ResultsAreDeterministic(t *testing.T) {
	engine := newTestEngine()
	entries := dailyEntries(12, testNow, 18)

	assert.Equal(t, engine.Analyze(testHabit, entries), engine.Analyze(testHabit, entries))
}
