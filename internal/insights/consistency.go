package insights

import "fmt"

const (
	recentWindow       = 7
	weekDays           = 7
	recencyPenaltyDays = 7

	frequencyWeight = 0.6
	recencyWeight   = 0.4
)

var consistencyMessages = map[Rating]string{
	RatingExcellent:        "Excellent consistency! You're building a strong habit.",
	RatingGood:             "Good progress! Keep maintaining your streak.",
	RatingFair:             "You're making progress. Try to be more consistent.",
	RatingNeedsImprovement: "Try to be more consistent. Small daily actions lead to big results.",
}

func defaultConsistency() ConsistencyResult {
	return ConsistencyResult{
		Score:       1.0,
		Consistency: RatingExcellent,
		Message:     "Keep going!",
		Insights:    []string{},
	}
}

// AnalyzeConsistency scores how regularly the habit was tracked recently.
// Fewer than two entries yield an optimistic default.
func (e *Engine) AnalyzeConsistency(entries []Entry) ConsistencyResult {
	entries = e.usable(entries)
	if len(entries) < 2 {
		return defaultConsistency()
	}

	recent := RecentEntries(entries, recentWindow, e.loc)
	metrics := ConsistencyMetrics{
		DaysWithEntries:    len(recent),
		DaysSinceLastEntry: DaysBetween(recent[0].Day(e.loc), e.Now()),
	}

	score := FrequencyScore(float64(metrics.DaysWithEntries), weekDays)*frequencyWeight +
		RecencyScore(float64(metrics.DaysSinceLastEntry), recencyPenaltyDays)*recencyWeight
	rating := ratingFor(score)

	insights := []string{}
	if metrics.DaysSinceLastEntry > 2 {
		insights = append(insights, fmt.Sprintf(
			"Last entry was %d days ago. Try to maintain daily consistency.", metrics.DaysSinceLastEntry))
	}
	if metrics.DaysWithEntries < 4 {
		insights = append(insights, fmt.Sprintf(
			"You've tracked %d days this week. Aim for daily tracking.", metrics.DaysWithEntries))
	}

	return ConsistencyResult{
		Score:       score,
		Consistency: rating,
		Message:     consistencyMessages[rating],
		Insights:    insights,
		Metrics:     metrics,
	}
}

// ratingFor maps a consistency score to its rating
func ratingFor(score float64) Rating {
	switch {
	case score >= 0.8:
		return RatingExcellent
	case score >= 0.6:
		return RatingGood
	case score >= 0.4:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}

// RatingFor is exported for cross-habit rollups
func RatingFor(score float64) Rating {
	return ratingFor(score)
}
