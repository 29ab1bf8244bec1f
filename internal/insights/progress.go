package insights

import (
	"fmt"
	"math"
	"sort"
)

const (
	habitFormationDays = 21
	minConsistencyRate = 0.5
	minEntriesForTrend = 14
)

// AnalyzeProgress reports long-run tracking progress
func (e *Engine) AnalyzeProgress(entries []Entry) ProgressResult {
	entries = e.usable(entries)
	if len(entries) == 0 {
		return ProgressResult{Insights: []Insight{}}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day(e.loc).Before(sorted[j].Day(e.loc))
	})

	first, last := sorted[0].Day(e.loc), sorted[len(sorted)-1].Day(e.loc)
	metrics := &ProgressMetrics{
		TotalDays:  len(sorted),
		DaysActive: int(civilDay(last)-civilDay(first)) + 1,
	}
	metrics.ConsistencyRate = float64(metrics.TotalDays) / math.Max(float64(metrics.DaysActive), 1)

	insights := []Insight{}
	if metrics.TotalDays >= habitFormationDays {
		insights = append(insights, Insight{
			Type: "milestone",
			Icon: "trophy",
			Message: fmt.Sprintf("You've been tracking for %d days! Research shows it takes %d days to form a habit - you're well on your way!",
				metrics.TotalDays, habitFormationDays),
		})
	}

	if metrics.ConsistencyRate >= 0.8 {
		insights = append(insights, Insight{
			Type:    "success",
			Icon:    "star",
			Message: fmt.Sprintf("Excellent consistency rate of %d%%!", round(metrics.ConsistencyRate*100)),
		})
	} else if metrics.TotalDays >= 7 && metrics.ConsistencyRate < minConsistencyRate {
		insights = append(insights, Insight{
			Type:    "suggestion",
			Icon:    "bulb",
			Message: "Try to track more consistently. Setting a daily reminder can help!",
		})
	}

	if len(sorted) >= minEntriesForTrend && e.improving(sorted) {
		insights = append(insights, Insight{
			Type:    "improvement",
			Icon:    "trending-up",
			Message: "Great improvement! You're tracking more frequently than before.",
		})
	}

	return ProgressResult{
		HasProgress: true,
		Metrics:     metrics,
		Insights:    insights,
	}
}

// improving compares the last seven days with the seven before them
func (e *Engine) improving(entries []Entry) bool {
	recent, previous := e.weekCounts(entries)
	return recent > previous
}

// weekCounts counts entries in (now-7d, now] and (now-14d, now-7d].
func (e *Engine) weekCounts(entries []Entry) (recent, previous int) {
	now := e.Now()
	for _, en := range entries {
		ago := now.Sub(en.Instant(e.loc)).Hours() / 24
		switch {
		case ago <= 7:
			recent++
		case ago <= 14:
			previous++
		}
	}
	return recent, previous
}
