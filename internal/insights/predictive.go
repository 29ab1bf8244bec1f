package insights

import (
	"fmt"
	"math"
	"time"
)

const (
	defaultIntervalHours = 24.0
	riskIntervalSample   = 7
	modalHourSample      = 14
	breakPointSample     = 14
)

// AnalyzePredictions estimates streak risk, the best next tracking time and
// the likelihood that the habit sticks
func (e *Engine) AnalyzePredictions(entries []Entry, habit Habit) PredictionResult {
	entries = e.usable(entries)
	if len(entries) == 0 {
		return PredictionResult{
			Alerts:      []Alert{},
			Suggestions: []Suggestion{},
		}
	}

	sorted := SortByInstant(entries, true, e.loc)
	p := &Predictions{
		StreakRisk:           e.streakRisk(sorted),
		OptimalNextTime:      e.optimalNextTime(sorted),
		SuccessProbability:   e.successProbability(sorted),
		PotentialBreakPoints: e.breakPoints(sorted),
	}

	return PredictionResult{
		HasPredictions: true,
		Predictions:    p,
		Alerts:         predictiveAlerts(p, len(sorted)),
		Suggestions:    predictiveSuggestions(p),
	}
}

// streakRisk expects entries newest first
func (e *Engine) streakRisk(sorted []Entry) StreakRisk {
	now := e.Now()
	last := sorted[0].Instant(e.loc)
	risk := StreakRisk{
		Level:                RiskLow,
		Score:                0.2,
		Message:              "Streak is safe",
		HoursSinceLastEntry:  HoursBetween(last, now),
		DaysSinceLastEntry:   DaysBetween(last, now),
		AverageIntervalHours: defaultIntervalHours,
	}

	if len(sorted) > 1 {
		n := min(riskIntervalSample, len(sorted)-1)
		total := 0.0
		for i := 0; i < n; i++ {
			total += HoursBetween(sorted[i+1].Instant(e.loc), sorted[i].Instant(e.loc))
		}
		risk.AverageIntervalHours = total / float64(n)
	}

	switch {
	case risk.DaysSinceLastEntry >= 2:
		risk.Level, risk.Score = RiskHigh, 0.9
		risk.Message = "Streak is at high risk - track now to maintain it!"
	case risk.HoursSinceLastEntry > risk.AverageIntervalHours*1.5:
		risk.Level, risk.Score = RiskMedium, 0.6
		risk.Message = "You're past your usual tracking time - consider tracking soon"
	case risk.HoursSinceLastEntry > 36:
		risk.Level, risk.Score = RiskMedium, 0.5
		risk.Message = "Reminder: It's been over 36 hours since your last entry"
	}
	return risk
}

// optimalNextTime picks the modal tracking hour of recent entries; ties go
// to the later hour
func (e *Engine) optimalNextTime(sorted []Entry) *OptimalNextTime {
	if len(sorted) < 2 {
		return nil
	}

	sample := sorted[:min(modalHourSample, len(sorted))]
	var counts [24]int
	for _, en := range sample {
		counts[en.Instant(e.loc).Hour()]++
	}
	hour := 0
	for h := 1; h < 24; h++ {
		if counts[h] >= counts[hour] {
			hour = h
		}
	}

	now := e.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, e.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return &OptimalNextTime{
		Hour:       hour,
		Date:       next,
		Confidence: float64(counts[hour]) / float64(len(sample)),
	}
}

func (e *Engine) successProbability(sorted []Entry) SuccessProbability {
	if len(sorted) < 3 {
		return SuccessProbability{Probability: 0.5, Confidence: 0.3, Message: "Need more data"}
	}

	now := e.Now()
	daysAgo := func(en Entry) float64 {
		return now.Sub(en.Instant(e.loc)).Hours() / 24
	}

	recentCount := 0
	days := make(map[string]struct{})
	for _, en := range sorted {
		if daysAgo(en) <= 7 {
			recentCount++
			days[DayKey(en.Instant(e.loc))] = struct{}{}
		}
	}
	recentConsistency := float64(len(days)) / 7

	daysSinceFirst := daysAgo(sorted[len(sorted)-1])
	durationFactor := math.Min(daysSinceFirst/30, 1)

	previousCount := 0
	if len(sorted) > 7 {
		for _, en := range sorted[7:min(14, len(sorted))] {
			if d := daysAgo(en); d > 7 && d <= 14 {
				previousCount++
			}
		}
	}
	trendFactor, trend := 1.0, "improving"
	if recentCount < previousCount {
		trendFactor, trend = 0.7, "declining"
	}

	probability := recentConsistency*0.5 + durationFactor*0.3 + trendFactor*0.2

	message := "On track for success!"
	switch {
	case probability < 0.4:
		message = "Need to improve consistency to succeed"
	case probability < 0.7:
		message = "Good progress, keep it up!"
	}

	return SuccessProbability{
		Probability: probability,
		Confidence:  math.Min(float64(len(sorted))/20, 1),
		Message:     message,
		Factors: &SuccessFactors{
			RecentConsistency: recentConsistency,
			Duration:          daysSinceFirst,
			Trend:             trend,
		},
	}
}

func (e *Engine) breakPoints(sorted []Entry) []BreakPoint {
	points := []BreakPoint{}
	for i := 0; i < min(len(sorted)-1, breakPointSample); i++ {
		curr, next := sorted[i].Instant(e.loc), sorted[i+1].Instant(e.loc)
		gap := DaysBetween(curr, next)
		if gap > 2 {
			points = append(points, BreakPoint{
				Type:    "gap",
				Days:    gap,
				Date:    next,
				Message: fmt.Sprintf("There was a %d-day gap in tracking", gap),
			})
		}
	}
	return points
}

func predictiveAlerts(p *Predictions, n int) []Alert {
	alerts := []Alert{}

	switch p.StreakRisk.Level {
	case RiskHigh:
		alerts = append(alerts, Alert{
			Type:    AlertUrgent,
			Icon:    "warning",
			Title:   "Streak at Risk",
			Message: p.StreakRisk.Message,
			Action:  "Track now",
		})
	case RiskMedium:
		alerts = append(alerts, Alert{
			Type:    AlertWarning,
			Icon:    "alert-circle",
			Title:   "Reminder",
			Message: p.StreakRisk.Message,
			Action:  "Track soon",
		})
	}

	if p.SuccessProbability.Probability < 0.4 && n >= 7 {
		alerts = append(alerts, Alert{
			Type:    AlertInfo,
			Icon:    "information-circle",
			Title:   "Consistency Needed",
			Message: p.SuccessProbability.Message,
			Action:  "View tips",
		})
	}

	return alerts
}

func predictiveSuggestions(p *Predictions) []Suggestion {
	suggestions := []Suggestion{}

	if p.OptimalNextTime != nil && p.OptimalNextTime.Confidence > 0.3 {
		suggestions = append(suggestions, Suggestion{
			Type:  "optimal_time",
			Icon:  "time",
			Title: "Best Time to Track",
			Message: fmt.Sprintf("Based on your patterns, try tracking around %s for better consistency",
				p.OptimalNextTime.Date.Format("3:04 PM")),
		})
	}

	if p.StreakRisk.Level == RiskMedium || p.StreakRisk.Level == RiskHigh {
		suggestions = append(suggestions, Suggestion{
			Type:    "prevent_break",
			Icon:    "shield-checkmark",
			Title:   "Protect Your Streak",
			Message: "Track now to prevent breaking your streak and maintain momentum",
		})
	}

	return suggestions
}
