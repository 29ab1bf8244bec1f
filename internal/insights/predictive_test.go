package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePredictions_Empty(t *testing.T) {
	result := newTestEngine().AnalyzePredictions(nil, testHabit)
	assert.False(t, result.HasPredictions)
	assert.Nil(t, result.Predictions)
	assert.NotNil(t, result.Alerts)
	assert.Empty(t, result.Alerts)
	assert.Empty(t, result.Suggestions)
}

func TestAnalyzePredictions_OnTrack(t *testing.T) {
	result := newTestEngine().AnalyzePredictions(dailyEntries(7, testNow, 19), testHabit)
	require.True(t, result.HasPredictions)
	p := result.Predictions

	assert.Equal(t, RiskLow, p.StreakRisk.Level)
	assert.Equal(t, 0.2, p.StreakRisk.Score)
	assert.Equal(t, "Streak is safe", p.StreakRisk.Message)
	assert.InDelta(t, 1.0, p.StreakRisk.HoursSinceLastEntry, 1e-9)
	assert.InDelta(t, 24.0, p.StreakRisk.AverageIntervalHours, 1e-9)

	require.NotNil(t, p.OptimalNextTime)
	assert.Equal(t, 19, p.OptimalNextTime.Hour)
	assert.Equal(t, time.Date(2024, 1, 8, 19, 0, 0, 0, time.UTC), p.OptimalNextTime.Date)
	assert.InDelta(t, 1.0, p.OptimalNextTime.Confidence, 1e-9)

	// 1*0.5 + (6d1h/30)*0.3 + 1*0.2
	assert.InDelta(t, 0.7604, p.SuccessProbability.Probability, 0.001)
	assert.InDelta(t, 0.35, p.SuccessProbability.Confidence, 1e-9)
	assert.Equal(t, "On track for success!", p.SuccessProbability.Message)
	require.NotNil(t, p.SuccessProbability.Factors)
	assert.Equal(t, "improving", p.SuccessProbability.Factors.Trend)

	assert.Empty(t, p.PotentialBreakPoints)
	assert.Empty(t, result.Alerts)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "optimal_time", result.Suggestions[0].Type)
	assert.Equal(t, "Based on your patterns, try tracking around 7:00 PM for better consistency", result.Suggestions[0].Message)
}

func TestAnalyzePredictions_HighRisk(t *testing.T) {
	entries := dailyEntries(4, at(time.January, 4, 10), 10)

	result := newTestEngine().AnalyzePredictions(entries, testHabit)
	require.True(t, result.HasPredictions)
	assert.Equal(t, RiskHigh, result.Predictions.StreakRisk.Level)
	assert.Equal(t, 0.9, result.Predictions.StreakRisk.Score)
	assert.Equal(t, 3, result.Predictions.StreakRisk.DaysSinceLastEntry)

	require.NotEmpty(t, result.Alerts)
	assert.Equal(t, AlertUrgent, result.Alerts[0].Type)
	assert.Equal(t, "Streak at Risk", result.Alerts[0].Title)
	assert.Equal(t, "Track now", result.Alerts[0].Action)

	last := result.Suggestions[len(result.Suggestions)-1]
	assert.Equal(t, "prevent_break", last.Type)
	assert.Equal(t, "shield-checkmark", last.Icon)
}

func TestAnalyzePredictions_PastUsualTime(t *testing.T) {
	entries := entriesAt(
		at(time.January, 7, 5),
		at(time.January, 6, 23),
		at(time.January, 6, 17),
	)

	result := newTestEngine().AnalyzePredictions(entries, testHabit)
	risk := result.Predictions.StreakRisk
	assert.Equal(t, RiskMedium, risk.Level)
	assert.Equal(t, 0.6, risk.Score)
	assert.InDelta(t, 6.0, risk.AverageIntervalHours, 1e-9)

	require.NotEmpty(t, result.Alerts)
	assert.Equal(t, AlertWarning, result.Alerts[0].Type)
	assert.Equal(t, "Reminder", result.Alerts[0].Title)
}

func TestAnalyzePredictions_BreakPoints(t *testing.T) {
	entries := entriesAt(at(time.January, 7, 10), at(time.January, 3, 10))

	result := newTestEngine().AnalyzePredictions(entries, testHabit)
	require.Len(t, result.Predictions.PotentialBreakPoints, 1)

	bp := result.Predictions.PotentialBreakPoints[0]
	assert.Equal(t, "gap", bp.Type)
	assert.Equal(t, 4, bp.Days)
	assert.Equal(t, at(time.January, 3, 10), bp.Date)
	assert.Equal(t, "There was a 4-day gap in tracking", bp.Message)
	assert.Equal(t, RiskLow, result.Predictions.StreakRisk.Level)
}

func TestAnalyzePredictions_ModalHourTieGoesToLaterHour(t *testing.T) {
	entries := entriesAt(
		at(time.January, 7, 8),
		at(time.January, 6, 8),
		at(time.January, 5, 18),
		at(time.January, 4, 18),
	)

	next := newTestEngine().AnalyzePredictions(entries, testHabit).Predictions.OptimalNextTime
	require.NotNil(t, next)
	assert.Equal(t, 18, next.Hour)
	assert.Equal(t, time.Date(2024, 1, 8, 18, 0, 0, 0, time.UTC), next.Date)
	assert.InDelta(t, 0.5, next.Confidence, 1e-9)
}

func TestAnalyzePredictions_FewEntries(t *testing.T) {
	result := newTestEngine().AnalyzePredictions(dailyEntries(1, testNow, 9), testHabit)
	require.True(t, result.HasPredictions)
	assert.Nil(t, result.Predictions.OptimalNextTime)

	sp := result.Predictions.SuccessProbability
	assert.Equal(t, 0.5, sp.Probability)
	assert.Equal(t, 0.3, sp.Confidence)
	assert.Equal(t, "Need more data", sp.Message)
	assert.Nil(t, sp.Factors)
}
