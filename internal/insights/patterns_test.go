package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePatterns_NotEnoughData(t *testing.T) {
	result := newTestEngine().AnalyzePatterns(dailyEntries(2, testNow, 9))
	assert.False(t, result.HasPatterns)
	assert.Nil(t, result.Patterns)
	assert.Empty(t, result.Insights)
	assert.Empty(t, result.Recommendations)
}

func TestAnalyzePatterns_EveningRoutine(t *testing.T) {
	// Wednesday through Sunday at 19:00
	result := newTestEngine().AnalyzePatterns(dailyEntries(5, testNow, 19))
	require.True(t, result.HasPatterns)
	p := result.Patterns

	assert.Equal(t, SlotEvening, p.TimeOfDay.MostFrequent)
	assert.Equal(t, 5, p.TimeOfDay.Distribution[SlotEvening])
	assert.Equal(t, 0, p.TimeOfDay.Distribution[SlotMorning])
	assert.InDelta(t, 1.0, p.TimeOfDay.Confidence, 1e-9)

	assert.Equal(t, []string{"sunday", "wednesday", "thursday"}, p.DayOfWeek.TopDays)
	assert.InDelta(t, 5.0/7, p.DayOfWeek.AveragePerDay, 1e-9)

	assert.InDelta(t, 24.0, p.TrackingFrequency.AverageInterval, 1e-9)
	assert.InDelta(t, 1.0, p.TrackingFrequency.Regularity, 1e-9)
	assert.True(t, p.TrackingFrequency.IsRegular)

	require.Len(t, p.OptimalTimes, 1)
	assert.Equal(t, "You're most consistent when tracking in the Evening (5-9 PM)", p.OptimalTimes[0].Message)

	assert.Equal(t, 5, p.ConsistencyPatterns.Last7DaysCount)
	assert.True(t, p.ConsistencyPatterns.IsConsistent)

	require.Len(t, result.Insights, 4)
	assert.Equal(t, "You typically track in the evening (100% of the time)", result.Insights[0].Message)
	assert.Equal(t, "Your most active tracking day is Sunday", result.Insights[1].Message)
	assert.Equal(t, "Great regularity! You track approximately every 1 days", result.Insights[2].Message)
	assert.Equal(t, "Strong recent consistency: 5 days tracked in the last week!", result.Insights[3].Message)

	assert.Empty(t, result.Recommendations)
}

func TestAnalyzePatterns_EveryFortyEightHours(t *testing.T) {
	result := newTestEngine().AnalyzePatterns(spacedEntries(10, 2, testNow))
	require.True(t, result.HasPatterns)

	f := result.Patterns.TrackingFrequency
	assert.InDelta(t, 48.0, f.AverageInterval, 1e-9)
	assert.InDelta(t, 1.0, f.Regularity, 1e-9)
	assert.True(t, f.IsRegular)
}

func TestAnalyzePatterns_TiesGoToLaterSlot(t *testing.T) {
	entries := entriesAt(
		at(time.January, 7, 9),
		at(time.January, 6, 9),
		at(time.January, 5, 18),
		at(time.January, 4, 18),
	)

	result := newTestEngine().AnalyzePatterns(entries)
	require.True(t, result.HasPatterns)
	assert.Equal(t, SlotEvening, result.Patterns.TimeOfDay.MostFrequent)
	assert.InDelta(t, 0.5, result.Patterns.TimeOfDay.Confidence, 1e-9)
	assert.Empty(t, result.Patterns.OptimalTimes)
}

func TestAnalyzePatterns_IrregularTracking(t *testing.T) {
	entries := entriesAt(
		at(time.January, 1, 9),
		at(time.January, 1, 10),
		at(time.January, 5, 14),
		at(time.January, 5, 15),
	)

	result := newTestEngine().AnalyzePatterns(entries)
	require.True(t, result.HasPatterns)
	assert.False(t, result.Patterns.TrackingFrequency.IsRegular)
	assert.False(t, result.Patterns.ConsistencyPatterns.IsConsistent)

	types := make([]string, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{"routine", "consistency"}, types)
	assert.Equal(t, "Improve Regularity", result.Recommendations[1].Title)
}

func TestMeanVariance(t *testing.T) {
	mean, variance := meanVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 4.0, variance, 1e-9)

	mean, variance = meanVariance(nil)
	assert.Zero(t, mean)
	assert.Zero(t, variance)
}
