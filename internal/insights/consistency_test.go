package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeConsistency_NotEnoughData(t *testing.T) {
	engine := newTestEngine()

	for _, entries := range [][]Entry{nil, {}, dailyEntries(1, testNow, 9)} {
		result := engine.AnalyzeConsistency(entries)
		assert.Equal(t, 1.0, result.Score)
		assert.Equal(t, RatingExcellent, result.Consistency)
		assert.Equal(t, "Keep going!", result.Message)
		assert.NotNil(t, result.Insights)
		assert.Empty(t, result.Insights)
		assert.Equal(t, ConsistencyMetrics{}, result.Metrics)
	}
}

func TestAnalyzeConsistency_DailyTracking(t *testing.T) {
	engine := newTestEngine()

	result := engine.AnalyzeConsistency(dailyEntries(10, testNow, 9))
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.Equal(t, RatingExcellent, result.Consistency)
	assert.Equal(t, "Excellent consistency! You're building a strong habit.", result.Message)
	assert.Empty(t, result.Insights)
	assert.Equal(t, 7, result.Metrics.DaysWithEntries)
	assert.Equal(t, 0, result.Metrics.DaysSinceLastEntry)
}

func TestAnalyzeConsistency_StaleAndSparse(t *testing.T) {
	engine := newTestEngine()

	entries := dailyEntries(3, at(time.January, 3, 9), 9)
	result := engine.AnalyzeConsistency(entries)

	// 3/7*0.6 + (1-4/7)*0.4
	assert.InDelta(t, 0.4286, result.Score, 0.001)
	assert.Equal(t, RatingFair, result.Consistency)
	assert.Equal(t, 4, result.Metrics.DaysSinceLastEntry)
	require.Len(t, result.Insights, 2)
	assert.Equal(t, "Last entry was 4 days ago. Try to maintain daily consistency.", result.Insights[0])
	assert.Equal(t, "You've tracked 3 days this week. Aim for daily tracking.", result.Insights[1])
}

func TestAnalyzeConsistency_UsesLegacyDate(t *testing.T) {
	engine := newTestEngine()

	// CreatedAt is recent but the calendar day is what counts.
	entries := []Entry{
		{Date: "2023-12-30", CreatedAt: at(time.January, 7, 9)},
		{Date: "2023-12-29", CreatedAt: at(time.January, 7, 8)},
	}
	result := engine.AnalyzeConsistency(entries)
	assert.Equal(t, 8, result.Metrics.DaysSinceLastEntry)
	assert.Equal(t, RatingNeedsImprovement, result.Consistency)
}

func TestAnalyzeConsistency_DoesNotMutateInput(t *testing.T) {
	engine := newTestEngine()

	entries := entriesAt(at(time.January, 1, 9), at(time.January, 6, 9), at(time.January, 3, 9))
	original := append([]Entry(nil), entries...)

	engine.AnalyzeConsistency(entries)
	assert.Equal(t, original, entries)
}

func TestRatingFor(t *testing.T) {
	assert.Equal(t, RatingExcellent, RatingFor(0.8))
	assert.Equal(t, RatingGood, RatingFor(0.79))
	assert.Equal(t, RatingGood, RatingFor(0.6))
	assert.Equal(t, RatingFair, RatingFor(0.4))
	assert.Equal(t, RatingNeedsImprovement, RatingFor(0.39))
}
