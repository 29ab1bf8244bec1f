package dashboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/gmsas95/habitlens/internal/insights"
)

const (
	excellentConsistency = 0.8
	goodConsistency      = 0.6
	strongHabit          = 0.65

	strengthWeight    = 0.6
	consistencyWeight = 0.4

	lowConsistency = 0.4
	lowStrength    = 0.35

	celebrationStrength   = 0.7
	encouragementStrength = 0.5

	topPerformingLimit = 3
	attentionLimit     = 3
	recentAchievements = 5
)

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// countInRange counts scores in [min, max)
func countInRange(xs []float64, min, max float64) int {
	n := 0
	for _, x := range xs {
		if x >= min && x < max {
			n++
		}
	}
	return n
}

func consistencyScores(valid []HabitInsight) []float64 {
	out := make([]float64, len(valid))
	for i, hi := range valid {
		out[i] = hi.Consistency.Score
	}
	return out
}

func strengthScores(valid []HabitInsight) []float64 {
	out := make([]float64, len(valid))
	for i, hi := range valid {
		out[i] = hi.Strength.Score
	}
	return out
}

func habitsAre(n int) string {
	if n > 1 {
		return "habits are"
	}
	return "habit is"
}

func consistencyMessage(rating insights.Rating, excellent, good int) string {
	switch rating {
	case insights.RatingExcellent:
		return fmt.Sprintf("Excellent! %d %s performing exceptionally well!", excellent, habitsAre(excellent))
	case insights.RatingGood:
		n := good + excellent
		return fmt.Sprintf("Good consistency! %d %s on track.", n, habitsAre(n))
	case insights.RatingFair:
		return "You're making progress. Focus on consistency to improve your habits."
	default:
		return "Focus on daily tracking to build stronger habits!"
	}
}

func summarizeConsistency(valid []HabitInsight) *ConsistencySummary {
	scores := consistencyScores(valid)
	avg := average(scores)
	rating := insights.RatingFor(avg)
	excellent := countInRange(scores, excellentConsistency, math.Inf(1))
	good := countInRange(scores, goodConsistency, excellentConsistency)

	return &ConsistencySummary{
		AverageScore:   avg,
		Rating:         rating,
		ExcellentCount: excellent,
		GoodCount:      good,
		TotalHabits:    len(valid),
		Message:        consistencyMessage(rating, excellent, good),
	}
}

func summarizeStrength(valid []HabitInsight) *StrengthSummary {
	scores := strengthScores(valid)
	strong := countInRange(scores, strongHabit, math.Inf(1))

	return &StrengthSummary{
		AverageStrength:   average(scores),
		StrongHabitsCount: strong,
		TotalHabits:       len(valid),
		Percentage:        int(math.Round(float64(strong) / float64(len(valid)) * 100)),
	}
}

func isImproving(hi HabitInsight) bool {
	t := hi.Trends.Trends
	if t == nil {
		return false
	}
	return t.Overall.Direction == insights.DirectionImproving || t.Comparison.IsBetter
}

func isDeclining(hi HabitInsight) bool {
	t := hi.Trends.Trends
	return t != nil && t.Overall.Direction == insights.DirectionDeclining
}

// summarizeTrends counts a habit that declines overall but beat last week
// as both improving and declining; StableCount holds habits that are neither.
func summarizeTrends(valid []HabitInsight) *TrendSummary {
	var improving, declining, stable int
	for _, hi := range valid {
		up, down := isImproving(hi), isDeclining(hi)
		if up {
			improving++
		}
		if down {
			declining++
		}
		if !up && !down {
			stable++
		}
	}

	direction := insights.DirectionStable
	switch {
	case improving > declining:
		direction = insights.DirectionImproving
	case declining > improving:
		direction = insights.DirectionDeclining
	}

	return &TrendSummary{
		ImprovingCount:   improving,
		DecliningCount:   declining,
		StableCount:      stable,
		TotalHabits:      len(valid),
		OverallDirection: direction,
	}
}

func summarizeAchievements(valid []HabitInsight) *AchievementSummary {
	var all []insights.Achievement
	upcoming := []insights.UpcomingMilestone{}
	for _, hi := range valid {
		all = append(all, hi.Achievements.Achievements...)
		upcoming = append(upcoming, hi.Achievements.UpcomingMilestones...)
	}

	recent := insights.SortByMilestone(all)
	if len(recent) > recentAchievements {
		recent = recent[:recentAchievements]
	}

	return &AchievementSummary{
		Total:    len(all),
		Recent:   recent,
		Upcoming: upcoming,
	}
}

func summarizeAlerts(valid []HabitInsight) *AlertSummary {
	out := &AlertSummary{
		Urgent:   []insights.Alert{},
		Warnings: []insights.Alert{},
	}
	for _, hi := range valid {
		for _, alert := range hi.Predictions.Alerts {
			alert.HabitID = hi.Habit.ID
			alert.HabitName = hi.Habit.Name
			switch alert.Type {
			case insights.AlertUrgent:
				out.Urgent = append(out.Urgent, alert)
			case insights.AlertWarning:
				out.Warnings = append(out.Warnings, alert)
			}
		}
	}
	out.Total = len(out.Urgent) + len(out.Warnings)
	return out
}

// PerformanceScore weights strength over consistency
func PerformanceScore(strength, consistency float64) float64 {
	return strength*strengthWeight + consistency*consistencyWeight
}

func topPerforming(valid []HabitInsight, limit int) []RankedHabit {
	ranked := make([]RankedHabit, len(valid))
	for i, hi := range valid {
		ranked[i] = RankedHabit{
			Habit:       hi.Habit,
			Score:       PerformanceScore(hi.Strength.Score, hi.Consistency.Score),
			Strength:    hi.Strength.Score,
			Consistency: hi.Consistency.Score,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func hasAlert(hi HabitInsight, types ...insights.AlertType) bool {
	for _, alert := range hi.Predictions.Alerts {
		for _, t := range types {
			if alert.Type == t {
				return true
			}
		}
	}
	return false
}

// NeedsAttention reports habits with an urgent or warning alert or weak scores
func NeedsAttention(hi HabitInsight) bool {
	return hasAlert(hi, insights.AlertUrgent, insights.AlertWarning) ||
		hi.Consistency.Score < lowConsistency ||
		hi.Strength.Score < lowStrength
}

func needingAttention(valid []HabitInsight, limit int) []AttentionHabit {
	out := []AttentionHabit{}
	for _, hi := range valid {
		if !NeedsAttention(hi) {
			continue
		}
		out = append(out, AttentionHabit{
			Habit:          hi.Habit,
			Consistency:    hi.Consistency.Score,
			Strength:       hi.Strength.Score,
			HasUrgentAlert: hasAlert(hi, insights.AlertUrgent),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasUrgentAlert != out[j].HasUrgentAlert {
			return out[i].HasUrgentAlert
		}
		return out[i].Consistency < out[j].Consistency
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func overallMotivation(valid []HabitInsight) *Motivation {
	var achievements, excellent int
	for _, hi := range valid {
		achievements += hi.Achievements.TotalAchievements
		if hi.Consistency.Score >= excellentConsistency {
			excellent++
		}
	}
	avgStrength := average(strengthScores(valid))

	switch {
	case avgStrength >= celebrationStrength && achievements > 0:
		return &Motivation{
			Message: "You're doing amazing! Your habits are strong and consistent! 🎉",
			Type:    "celebration",
			Icon:    "trophy",
		}
	case avgStrength >= encouragementStrength && excellent > 0:
		return &Motivation{
			Message: "Great progress! Keep building on your momentum! 💪",
			Type:    "encouragement",
			Icon:    "flame",
		}
	case avgStrength >= encouragementStrength:
		return &Motivation{
			Message: "Good work! Focus on consistency to make your habits even stronger! ⭐",
			Type:    "encouragement",
			Icon:    "star",
		}
	default:
		return &Motivation{
			Message: "Keep going! Consistency is the key to building strong habits! 🌱",
			Type:    "motivation",
			Icon:    "leaf",
		}
	}
}
