package insights

import (
	"fmt"
	"math"
)

const stabilitySample = 14

var strengthDescriptions = map[StrengthLevel]string{
	StrengthVeryStrong: "This habit is deeply ingrained and part of your routine!",
	StrengthStrong:     "Great habit strength! You're maintaining it well.",
	StrengthModerate:   "Good progress! The habit is developing nicely.",
	StrengthDeveloping: "The habit is forming. Keep up the consistency!",
	StrengthWeak:       "Early stages. Focus on consistency to strengthen this habit.",
}

var strengthIcons = map[StrengthLevel]string{
	StrengthVeryStrong: "diamond",
	StrengthStrong:     "trophy",
	StrengthModerate:   "star",
	StrengthDeveloping: "leaf",
	StrengthWeak:       "seed",
}

var strengthLabels = map[StrengthLevel]string{
	StrengthVeryStrong: "Very Strong",
	StrengthStrong:     "Strong",
	StrengthModerate:   "Moderate",
	StrengthDeveloping: "Developing",
	StrengthWeak:       "Weak",
}

// AnalyzeStrength computes a weighted composite of five habit factors
func (e *Engine) AnalyzeStrength(entries []Entry) StrengthResult {
	entries = e.usable(entries)
	if len(entries) == 0 {
		return StrengthResult{
			Level:       StrengthWeak,
			Insights:    []Insight{},
			Description: "Start tracking to build habit strength",
		}
	}

	sorted := SortByInstant(entries, false, e.loc)
	f := StrengthFactors{
		Consistency: e.AnalyzeConsistency(entries).Score,
		Duration:    e.durationFactor(sorted),
		Recency:     e.recencyFactor(sorted),
		Frequency:   e.frequencyFactor(sorted),
		Stability:   e.stabilityFactor(sorted),
	}

	score := clamp01(f.Consistency*0.25 + f.Duration*0.20 + f.Recency*0.30 + f.Frequency*0.15 + f.Stability*0.10)
	level := StrengthLevelFor(score)

	return StrengthResult{
		Score:       score,
		Level:       level,
		Factors:     f,
		Insights:    strengthInsights(f, score, level),
		Description: strengthDescriptions[level],
	}
}

// StrengthLevelFor maps a strength score to its level
func StrengthLevelFor(score float64) StrengthLevel {
	switch {
	case score >= 0.8:
		return StrengthVeryStrong
	case score >= 0.65:
		return StrengthStrong
	case score >= 0.5:
		return StrengthModerate
	case score >= 0.35:
		return StrengthDeveloping
	default:
		return StrengthWeak
	}
}

func (e *Engine) durationFactor(sorted []Entry) float64 {
	// entries dated after now (clock skew) count as no history
	days := e.Now().Sub(sorted[0].Instant(e.loc)).Hours() / 24
	return clamp01(days / 90)
}

func (e *Engine) recencyFactor(sorted []Entry) float64 {
	hours := e.Now().Sub(sorted[len(sorted)-1].Instant(e.loc)).Hours()
	switch {
	case hours <= 24:
		return 1.0
	case hours <= 48:
		return 0.75
	case hours <= 72:
		return 0.5
	case hours <= 168:
		return 0.25
	}
	return math.Max(0, 1-hours/336)
}

func (e *Engine) frequencyFactor(sorted []Entry) float64 {
	if len(sorted) < 2 {
		return 0.3
	}
	span := sorted[len(sorted)-1].Instant(e.loc).Sub(sorted[0].Instant(e.loc)).Hours() / 24
	return math.Min(float64(len(sorted))/math.Max(1, span), 1)
}

// stabilityFactor measures interval spread across the most recent entries
func (e *Engine) stabilityFactor(sorted []Entry) float64 {
	if len(sorted) < 7 {
		return 0.5
	}
	recent := sorted[max(0, len(sorted)-stabilitySample):]

	intervals := make([]float64, 0, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		intervals = append(intervals, recent[i].Instant(e.loc).Sub(recent[i-1].Instant(e.loc)).Hours())
	}
	avg, variance := meanVariance(intervals)
	if avg == 0 {
		return 0.5
	}
	return math.Max(0, 1-variance/(avg*avg*2))
}

func strengthInsights(f StrengthFactors, score float64, level StrengthLevel) []Insight {
	insights := []Insight{{
		Type:    "strength",
		Icon:    strengthIcons[level],
		Message: fmt.Sprintf("Habit Strength: %s (%d%%)", strengthLabels[level], round(score*100)),
	}}

	if f.Recency < 0.5 {
		insights = append(insights, Insight{
			Type:    "warning",
			Icon:    "time",
			Message: "Track more recently to maintain habit strength",
		})
	}
	if f.Duration < 0.3 && score > 0.5 {
		insights = append(insights, Insight{
			Type:    "info",
			Icon:    "calendar",
			Message: "With more time, this habit will become even stronger",
		})
	}
	if f.Stability < 0.5 && f.Frequency > 0.7 {
		insights = append(insights, Insight{
			Type:    "suggestion",
			Icon:    "repeat",
			Message: "Try tracking at consistent times for better stability",
		})
	}

	return insights
}
