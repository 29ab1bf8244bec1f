package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EmptyShape(t *testing.T) {
	out := Aggregate(nil)

	assert.True(t, out.IsEmpty())
	assert.Nil(t, out.OverallConsistency)
	assert.Nil(t, out.RiskAlerts)
	assert.NotNil(t, out.TopPerformingHabits)
	assert.NotNil(t, out.HabitsNeedingAttention)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overallConsistency":null`)
	assert.Contains(t, string(data), `"motivationalInsight":null`)
	assert.Contains(t, string(data), `"topPerformingHabits":[]`)
	assert.Contains(t, string(data), `"habitsNeedingAttention":[]`)
}

func TestSummarizeConsistency(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		rating    insights.Rating
		excellent int
		good      int
		message   string
	}{
		{"single excellent", []float64{0.9}, insights.RatingExcellent, 1, 0, "Excellent! 1 habit is performing exceptionally well!"},
		{"several excellent", []float64{0.9, 0.85}, insights.RatingExcellent, 2, 0, "Excellent! 2 habits are performing exceptionally well!"},
		{"good", []float64{0.9, 0.85, 0.5}, insights.RatingGood, 2, 0, "Good consistency! 2 habits are on track."},
		{"good single", []float64{0.7}, insights.RatingGood, 0, 1, "Good consistency! 1 habit is on track."},
		{"fair", []float64{0.45}, insights.RatingFair, 0, 0, "You're making progress. Focus on consistency to improve your habits."},
		{"needs improvement", []float64{0.1, 0.2}, insights.RatingNeedsImprovement, 0, 0, "Focus on daily tracking to build stronger habits!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var valid []HabitInsight
			for _, s := range tt.scores {
				valid = append(valid, bundle(readHabit, s, 0.5))
			}

			got := summarizeConsistency(valid)
			assert.Equal(t, tt.rating, got.Rating)
			assert.Equal(t, tt.excellent, got.ExcellentCount)
			assert.Equal(t, tt.good, got.GoodCount)
			assert.Equal(t, len(tt.scores), got.TotalHabits)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestSummarizeStrength(t *testing.T) {
	valid := []HabitInsight{
		bundle(readHabit, 0.5, 0.7),
		bundle(walkHabit, 0.5, 0.65),
		bundle(napHabit, 0.5, 0.15),
	}

	got := summarizeStrength(valid)
	assert.InDelta(t, 0.5, got.AverageStrength, 1e-9)
	assert.Equal(t, 2, got.StrongHabitsCount)
	assert.Equal(t, 3, got.TotalHabits)
	assert.Equal(t, 67, got.Percentage)
}

func withTrend(hi HabitInsight, direction insights.Direction, better bool) HabitInsight {
	hi.Trends = insights.TrendResult{
		HasTrends: true,
		Trends: &insights.Trends{
			Overall:    insights.OverallTrend{Direction: direction},
			Comparison: insights.PeriodComparison{IsBetter: better},
		},
	}
	return hi
}

func TestSummarizeTrends(t *testing.T) {
	valid := []HabitInsight{
		withTrend(bundle(readHabit, 0.5, 0.5), insights.DirectionImproving, false),
		withTrend(bundle(walkHabit, 0.5, 0.5), insights.DirectionStable, true),
		withTrend(bundle(napHabit, 0.5, 0.5), insights.DirectionDeclining, false),
		bundle(insights.Habit{ID: "no_trend"}, 0.5, 0.5),
	}

	got := summarizeTrends(valid)
	assert.Equal(t, 2, got.ImprovingCount)
	assert.Equal(t, 1, got.DecliningCount)
	assert.Equal(t, 1, got.StableCount)
	assert.Equal(t, insights.DirectionImproving, got.OverallDirection)
}

func TestSummarizeTrends_DecliningButBetterThisWeek(t *testing.T) {
	valid := []HabitInsight{
		withTrend(bundle(readHabit, 0.5, 0.5), insights.DirectionDeclining, true),
		withTrend(bundle(walkHabit, 0.5, 0.5), insights.DirectionDeclining, true),
	}

	got := summarizeTrends(valid)
	assert.Equal(t, 2, got.ImprovingCount)
	assert.Equal(t, 2, got.DecliningCount)
	assert.Equal(t, 0, got.StableCount)
	assert.Equal(t, 2, got.TotalHabits)
	assert.Equal(t, insights.DirectionStable, got.OverallDirection)
}

func TestSummarizeTrends_TieIsStable(t *testing.T) {
	valid := []HabitInsight{
		withTrend(bundle(readHabit, 0.5, 0.5), insights.DirectionImproving, false),
		withTrend(bundle(walkHabit, 0.5, 0.5), insights.DirectionDeclining, false),
	}

	assert.Equal(t, insights.DirectionStable, summarizeTrends(valid).OverallDirection)
}

func TestSummarizeAchievements(t *testing.T) {
	read := bundle(readHabit, 0.5, 0.5)
	read.Achievements = insights.AchievementResult{
		Achievements: []insights.Achievement{
			{Type: "milestone", Milestone: 1},
			{Type: "milestone", Milestone: 7},
			{Type: "consistency", Badge: "perfect_week"},
		},
		UpcomingMilestones: []insights.UpcomingMilestone{{Milestone: 14}},
		TotalAchievements:  3,
	}
	walk := bundle(walkHabit, 0.5, 0.5)
	walk.Achievements = insights.AchievementResult{
		Achievements: []insights.Achievement{
			{Type: "milestone", Milestone: 30},
			{Type: "streak", Milestone: 3},
			{Type: "milestone", Milestone: 21},
		},
		UpcomingMilestones: []insights.UpcomingMilestone{{Milestone: 50}},
		TotalAchievements:  3,
	}

	got := summarizeAchievements([]HabitInsight{read, walk})
	assert.Equal(t, 6, got.Total)
	require.Len(t, got.Recent, 5)
	milestones := []int{}
	for _, a := range got.Recent {
		milestones = append(milestones, a.Milestone)
	}
	assert.Equal(t, []int{30, 21, 7, 3, 1}, milestones)
	assert.Len(t, got.Upcoming, 2)
}

func TestSummarizeAlerts(t *testing.T) {
	read := bundle(readHabit, 0.5, 0.5)
	read.Predictions.Alerts = []insights.Alert{
		{Type: insights.AlertWarning, Title: "Pattern Change"},
		{Type: insights.AlertInfo, Title: "Best Time"},
	}
	walk := bundle(walkHabit, 0.5, 0.5)
	walk.Predictions.Alerts = []insights.Alert{
		{Type: insights.AlertUrgent, Title: "Streak at Risk"},
	}

	got := summarizeAlerts([]HabitInsight{read, walk})
	assert.Equal(t, 2, got.Total)
	require.Len(t, got.Urgent, 1)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "Walk", got.Urgent[0].HabitName)
	assert.Equal(t, walkHabit.ID, got.Urgent[0].HabitID)
	assert.Equal(t, "Read", got.Warnings[0].HabitName)

	assert.Empty(t, read.Predictions.Alerts[0].HabitName, "source alerts are not modified")
}

func TestTopPerforming(t *testing.T) {
	valid := []HabitInsight{
		bundle(readHabit, 0.2, 0.3),
		bundle(walkHabit, 0.9, 0.8),
		bundle(napHabit, 0.5, 0.9),
		bundle(insights.Habit{ID: "x", Name: "Stretch"}, 0.1, 0.1),
	}

	got := topPerforming(valid, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Walk", got[0].Habit.Name)
	assert.InDelta(t, 0.84, got[0].Score, 1e-9)
	assert.Equal(t, "Nap", got[1].Habit.Name)
	assert.Equal(t, "Read", got[2].Habit.Name)
}

func TestNeedingAttention(t *testing.T) {
	healthy := bundle(readHabit, 0.9, 0.9)

	lowConsistency := bundle(walkHabit, 0.3, 0.9)

	urgent := bundle(napHabit, 0.8, 0.8)
	urgent.Predictions.Alerts = []insights.Alert{{Type: insights.AlertUrgent}}

	weak := bundle(insights.Habit{ID: "weak", Name: "Stretch"}, 0.1, 0.2)

	got := needingAttention([]HabitInsight{healthy, lowConsistency, urgent, weak}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Nap", got[0].Habit.Name)
	assert.True(t, got[0].HasUrgentAlert)
	assert.Equal(t, "Stretch", got[1].Habit.Name)
	assert.Equal(t, "Walk", got[2].Habit.Name)
}

func TestNeedsAttention_WarningCounts(t *testing.T) {
	hi := bundle(readHabit, 0.9, 0.9)
	assert.False(t, NeedsAttention(hi))

	hi.Predictions.Alerts = []insights.Alert{{Type: insights.AlertInfo}}
	assert.False(t, NeedsAttention(hi))

	hi.Predictions.Alerts = []insights.Alert{{Type: insights.AlertWarning}}
	assert.True(t, NeedsAttention(hi))
}

func TestOverallMotivation(t *testing.T) {
	celebrate := bundle(readHabit, 0.5, 0.8)
	celebrate.Achievements.TotalAchievements = 1
	assert.Equal(t, "celebration", overallMotivation([]HabitInsight{celebrate}).Type)

	strongNoAchievements := bundle(readHabit, 0.9, 0.8)
	got := overallMotivation([]HabitInsight{strongNoAchievements})
	assert.Equal(t, "encouragement", got.Type)
	assert.Equal(t, "flame", got.Icon)

	moderate := bundle(readHabit, 0.5, 0.55)
	got = overallMotivation([]HabitInsight{moderate})
	assert.Equal(t, "encouragement", got.Type)
	assert.Equal(t, "star", got.Icon)

	weak := bundle(readHabit, 0.9, 0.3)
	got = overallMotivation([]HabitInsight{weak})
	assert.Equal(t, "motivation", got.Type)
	assert.Equal(t, "leaf", got.Icon)
}
