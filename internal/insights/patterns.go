package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

var slotLabels = map[TimeSlot]string{
	SlotEarlyMorning: "early morning",
	SlotMorning:      "morning",
	SlotAfternoon:    "afternoon",
	SlotEvening:      "evening",
	SlotNight:        "night",
}

var slotRanges = map[TimeSlot]string{
	SlotEarlyMorning: "Early Morning (5-8 AM)",
	SlotMorning:      "Morning (8 AM-12 PM)",
	SlotAfternoon:    "Afternoon (12-5 PM)",
	SlotEvening:      "Evening (5-9 PM)",
	SlotNight:        "Night (9 PM-5 AM)",
}

// AnalyzePatterns detects when and how regularly a habit gets tracked
func (e *Engine) AnalyzePatterns(entries []Entry) PatternResult {
	entries = e.usable(entries)
	if len(entries) < 3 {
		return PatternResult{
			Insights:        []Insight{},
			Recommendations: []Suggestion{},
		}
	}

	p := &Patterns{
		TimeOfDay:           e.timeOfDayPattern(entries),
		DayOfWeek:           e.dayOfWeekPattern(entries),
		TrackingFrequency:   e.trackingFrequency(entries),
		ConsistencyPatterns: e.recentConsistency(entries),
	}
	p.OptimalTimes = optimalTimes(p.TimeOfDay)

	return PatternResult{
		HasPatterns:     true,
		Patterns:        p,
		Insights:        patternInsights(p),
		Recommendations: patternRecommendations(p),
	}
}

func (e *Engine) timeOfDayPattern(entries []Entry) TimeOfDayPattern {
	dist := make(map[TimeSlot]int, len(TimeSlots))
	for _, slot := range TimeSlots {
		dist[slot] = 0
	}
	for _, en := range entries {
		dist[TimeOfDayBucket(en.Instant(e.loc))]++
	}

	// Later slots win ties.
	best := TimeSlots[0]
	for _, slot := range TimeSlots[1:] {
		if dist[slot] >= dist[best] {
			best = slot
		}
	}

	return TimeOfDayPattern{
		Distribution: dist,
		MostFrequent: best,
		Confidence:   float64(dist[best]) / float64(len(entries)),
	}
}

func (e *Engine) dayOfWeekPattern(entries []Entry) DayOfWeekPattern {
	dist := make(map[string]int, len(weekdayNames))
	for _, name := range weekdayNames {
		dist[name] = 0
	}
	for _, en := range entries {
		dist[DayOfWeekName(en.Instant(e.loc))]++
	}

	days := make([]string, len(weekdayNames))
	copy(days, weekdayNames[:])
	sort.SliceStable(days, func(i, j int) bool { return dist[days[i]] > dist[days[j]] })

	return DayOfWeekPattern{
		Distribution:  dist,
		TopDays:       days[:3],
		AveragePerDay: float64(len(entries)) / 7,
	}
}

func (e *Engine) trackingFrequency(entries []Entry) FrequencyPattern {
	sorted := SortByInstant(entries, false, e.loc)
	if len(sorted) < 2 {
		return FrequencyPattern{}
	}

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, HoursBetween(sorted[i-1].Instant(e.loc), sorted[i].Instant(e.loc)))
	}

	avg, variance := meanVariance(intervals)
	regularity := 0.0
	if avg > 0 {
		regularity = math.Max(0, 1-variance/(avg*avg))
	}

	return FrequencyPattern{
		AverageInterval: avg,
		Regularity:      regularity,
		IsRegular:       regularity > 0.6,
	}
}

func (e *Engine) recentConsistency(entries []Entry) RecentConsistency {
	now := e.Now()
	days := make(map[string]struct{})
	for _, en := range entries {
		t := en.Instant(e.loc)
		if now.Sub(t).Hours()/24 <= 7 {
			days[DayKey(t)] = struct{}{}
		}
	}
	return RecentConsistency{
		Last7DaysCount: len(days),
		Consistency:    float64(len(days)) / 7,
		IsConsistent:   len(days) >= 5,
	}
}

func optimalTimes(tod TimeOfDayPattern) []OptimalTime {
	if tod.Confidence <= 0.5 {
		return []OptimalTime{}
	}
	return []OptimalTime{{
		Type:       "optimal_time",
		Message:    "You're most consistent when tracking in the " + slotRanges[tod.MostFrequent],
		TimeSlot:   tod.MostFrequent,
		Confidence: tod.Confidence,
	}}
}

func patternInsights(p *Patterns) []Insight {
	insights := []Insight{}

	if p.TimeOfDay.Confidence > 0.4 {
		insights = append(insights, Insight{
			Type: "pattern",
			Icon: "time",
			Message: fmt.Sprintf("You typically track in the %s (%d%% of the time)",
				slotLabels[p.TimeOfDay.MostFrequent], round(p.TimeOfDay.Confidence*100)),
		})
	}

	if len(p.DayOfWeek.TopDays) > 0 {
		top := p.DayOfWeek.TopDays[0]
		insights = append(insights, Insight{
			Type:    "pattern",
			Icon:    "calendar",
			Message: "Your most active tracking day is " + strings.ToUpper(top[:1]) + top[1:],
		})
	}

	if p.TrackingFrequency.IsRegular {
		insights = append(insights, Insight{
			Type: "success",
			Icon: "checkmark-circle",
			Message: fmt.Sprintf("Great regularity! You track approximately every %d days",
				round(p.TrackingFrequency.AverageInterval/24)),
		})
	}

	if p.ConsistencyPatterns.IsConsistent {
		insights = append(insights, Insight{
			Type: "success",
			Icon: "flame",
			Message: fmt.Sprintf("Strong recent consistency: %d days tracked in the last week!",
				p.ConsistencyPatterns.Last7DaysCount),
		})
	}

	return insights
}

func patternRecommendations(p *Patterns) []Suggestion {
	recs := []Suggestion{}

	if !p.ConsistencyPatterns.IsConsistent && p.TimeOfDay.Confidence > 0.3 {
		recs = append(recs, Suggestion{
			Type:  "routine",
			Title: "Establish a Routine",
			Message: fmt.Sprintf("Try tracking at the same time each day. You've had success in the %s.",
				slotLabels[p.TimeOfDay.MostFrequent]),
			Icon: "alarm",
		})
	}

	if !p.TrackingFrequency.IsRegular && p.TrackingFrequency.AverageInterval > 0 {
		recs = append(recs, Suggestion{
			Type:    "consistency",
			Title:   "Improve Regularity",
			Message: "Try to maintain a more regular tracking schedule. Consistency helps build habits faster.",
			Icon:    "repeat",
		})
	}

	return recs
}

// meanVariance returns the mean and population variance of xs
func meanVariance(xs []float64) (mean, variance float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return mean, variance
}
