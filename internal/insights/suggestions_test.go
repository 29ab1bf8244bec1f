package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuggestions_Excellent(t *testing.T) {
	suggestions := newTestEngine().GenerateSuggestions(testHabit, dailyEntries(7, testNow, 9))

	require.Len(t, suggestions, 1)
	assert.Equal(t, "milestone", suggestions[0].Type)
	assert.Equal(t, "Explore habits", suggestions[0].Action)
}

func TestGenerateSuggestions_Reminder(t *testing.T) {
	// Date-only entries: the newest day began 44 hours ago.
	entries := []Entry{{Date: "2024-01-05"}, {Date: "2024-01-06"}}

	suggestions := newTestEngine().GenerateSuggestions(testHabit, entries)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "consistency", suggestions[0].Type)
	assert.Equal(t, "Set a daily reminder", suggestions[0].Action)
	assert.Equal(t, "reminder", suggestions[1].Type)
	assert.Equal(t, `You haven't tracked "Read" today. Capture a photo to keep your streak going!`, suggestions[1].Message)
	assert.Equal(t, "camera", suggestions[1].Icon)
}

func TestGenerateSuggestions_NoReminderWhenTooOld(t *testing.T) {
	entries := dailyEntries(2, at(time.January, 4, 9), 9)

	for _, s := range newTestEngine().GenerateSuggestions(testHabit, entries) {
		assert.NotEqual(t, "reminder", s.Type)
	}
}

func TestGenerateSuggestions_Empty(t *testing.T) {
	suggestions := newTestEngine().GenerateSuggestions(testHabit, nil)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}
