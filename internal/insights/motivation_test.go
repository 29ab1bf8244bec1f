package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMotivation_Empty(t *testing.T) {
	result := newTestEngine().GenerateMotivation(nil, testHabit)
	assert.Equal(t, "Every journey begins with a single step. Start tracking today!", result.Primary.Message)
	assert.Equal(t, "encouragement", result.Primary.Type)
	assert.Equal(t, "rocket", result.Primary.Icon)
	assert.Empty(t, result.Secondary)
	assert.Empty(t, result.Quotes)
}

func TestGenerateMotivation_TrackedToday(t *testing.T) {
	result := newTestEngine().GenerateMotivation(entriesAt(testNow.Add(-2*time.Hour)), testHabit)
	assert.Equal(t, "sparkles", result.Primary.Icon)
	assert.Equal(t, "✨", result.Primary.Emoji)
	assert.Empty(t, result.Secondary)
	require.Len(t, result.Quotes, 1)
	assert.Equal(t, "Mark Twain", result.Quotes[0].Author)
}

func TestGenerateMotivation_OneWeek(t *testing.T) {
	result := newTestEngine().GenerateMotivation(dailyEntries(7, testNow, 10), testHabit)
	assert.Equal(t, "One week complete! Keep this momentum going! 💪", result.Primary.Message)
	assert.Equal(t, "checkmark-circle", result.Primary.Icon)

	require.Len(t, result.Secondary, 2)
	assert.Equal(t, "Amazing consistency this week! You're unstoppable!", result.Secondary[0].Message)
	assert.Equal(t, "7-day streak! Your dedication is inspiring!", result.Secondary[1].Message)
	assert.Equal(t, "celebration", result.Secondary[1].Type)

	assert.Equal(t, "Unknown", result.Quotes[0].Author)
}

func TestGenerateMotivation_HabitFormed(t *testing.T) {
	result := newTestEngine().GenerateMotivation(dailyEntries(21, testNow, 10), testHabit)
	assert.Equal(t, "success", result.Primary.Type)
	assert.Equal(t, "flame", result.Primary.Icon)
	assert.Equal(t, "Aristotle", result.Quotes[0].Author)
}

func TestGenerateMotivation_BuildingMomentum(t *testing.T) {
	entries := dailyEntries(4, at(time.December, 4, 9), 9)

	result := newTestEngine().GenerateMotivation(entries, testHabit)
	assert.Equal(t, "leaf", result.Primary.Icon)
	require.Len(t, result.Secondary, 1)
	assert.Equal(t, "trending-up", result.Secondary[0].Icon)
}

func TestGenerateMotivation_Tiers(t *testing.T) {
	engine := newTestEngine()

	assert.Equal(t, "diamond", engine.GenerateMotivation(dailyEntries(100, testNow, 9), testHabit).Primary.Icon)
	assert.Equal(t, "🏆", engine.GenerateMotivation(dailyEntries(30, testNow, 9), testHabit).Primary.Emoji)
	assert.Equal(t, "star", engine.GenerateMotivation(dailyEntries(14, testNow, 9), testHabit).Primary.Icon)
}
