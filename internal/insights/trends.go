package insights

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AnalyzeTrends compares tracking volume across halves, weeks and months
func (e *Engine) AnalyzeTrends(entries []Entry) TrendResult {
	entries = e.usable(entries)
	if len(entries) < 4 {
		return TrendResult{
			Insights:  []Insight{},
			Forecasts: []Insight{},
		}
	}

	sorted := SortByInstant(entries, false, e.loc)
	t := &Trends{
		Overall:    e.overallTrend(sorted),
		Weekly:     e.weeklyTrend(sorted),
		Monthly:    e.monthlyTrend(sorted),
		Momentum:   e.momentum(sorted),
		Comparison: e.comparePeriods(sorted),
	}

	return TrendResult{
		HasTrends: true,
		Trends:    t,
		Insights:  trendInsights(t),
		Forecasts: trendForecasts(t),
	}
}

// overallTrend compares the entry rate of the older half with the newer half.
// Each rate is entries per day of the half's own span.
func (e *Engine) overallTrend(sorted []Entry) OverallTrend {
	if len(sorted) < 7 {
		return OverallTrend{Direction: DirectionNeutral, Description: "Need more data"}
	}

	mid := len(sorted) / 2
	first := e.halfRate(sorted[:mid])
	second := e.halfRate(sorted[mid:])
	diff := second - first

	direction := DirectionStable
	switch {
	case diff > 0.1:
		direction = DirectionImproving
	case diff < -0.1:
		direction = DirectionDeclining
	}
	strength := math.Abs(diff)

	return OverallTrend{
		Direction:      direction,
		Strength:       strength,
		Description:    trendDescription(direction, strength),
		FirstHalfRate:  first,
		SecondHalfRate: second,
	}
}

func (e *Engine) halfRate(half []Entry) float64 {
	span := half[len(half)-1].Instant(e.loc).Sub(half[0].Instant(e.loc)).Hours() / 24
	return float64(len(half)) / math.Max(1, span)
}

func trendDescription(direction Direction, strength float64) string {
	label := "slightly"
	switch {
	case strength > 0.3:
		label = "strongly"
	case strength > 0.15:
		label = ""
	}
	return strings.TrimSpace(label + " " + string(direction))
}

// weeklyTrend buckets the four seven-day windows before today, oldest first
func (e *Engine) weeklyTrend(sorted []Entry) WeeklyTrend {
	today := StartOfDay(e.Now())
	weeks := make([]WeekBucket, 4)
	total := 0

	for i := 0; i < 4; i++ {
		start := today.AddDate(0, 0, -(i+1)*7)
		end := start.AddDate(0, 0, 7)
		count, unique := e.countWindow(sorted, start, end)
		weeks[3-i] = WeekBucket{
			Week:       i + 1,
			Date:       start,
			Count:      count,
			UniqueDays: unique,
		}
		total += count
	}

	prev, last := weeks[2].Count, weeks[3].Count
	trend := last - prev
	percent := 0.0
	if prev > 0 {
		percent = float64(trend) / float64(prev) * 100
	}

	return WeeklyTrend{
		Weeks:          weeks,
		Trend:          trend,
		TrendPercent:   percent,
		IsImproving:    trend > 0,
		AveragePerWeek: float64(total) / 4,
	}
}

// monthlyTrend buckets the current and two previous calendar months
func (e *Engine) monthlyTrend(sorted []Entry) MonthlyTrend {
	now := e.Now()
	months := make([]MonthBucket, 3)
	total := 0

	for i := 0; i < 3; i++ {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, e.loc)
		end := start.AddDate(0, 1, 0)
		count, unique := e.countWindow(sorted, start, end)
		months[2-i] = MonthBucket{
			Month:      start.Format("Jan 2006"),
			Count:      count,
			UniqueDays: unique,
		}
		total += count
	}

	return MonthlyTrend{
		Months:          months,
		AveragePerMonth: float64(total) / 3,
	}
}

// countWindow counts entries in [start, end) and the distinct days among them
func (e *Engine) countWindow(entries []Entry, start, end time.Time) (count, uniqueDays int) {
	days := make(map[string]struct{})
	for _, en := range entries {
		t := en.Instant(e.loc)
		if t.Before(start) || !t.Before(end) {
			continue
		}
		count++
		days[DayKey(t)] = struct{}{}
	}
	return count, len(days)
}

// momentum compares the last seven days with the seven before them
func (e *Engine) momentum(sorted []Entry) Momentum {
	if len(sorted) < 14 {
		return Momentum{Score: 0.5, Level: MomentumNeutral}
	}

	recent, previous := e.weekCounts(sorted)
	change := recent - previous
	score := clamp01(0.5 + float64(change)/14)

	level := MomentumNeutral
	switch {
	case score > 0.7:
		level = MomentumStrong
	case score > 0.6:
		level = MomentumPositive
	case score < 0.3:
		level = MomentumWeak
	case score < 0.4:
		level = MomentumNegative
	}

	return Momentum{
		Score:       score,
		Level:       level,
		Description: fmt.Sprintf("Momentum is %s", level),
		Change:      change,
	}
}

// comparePeriods compares this calendar week, starting Sunday, with the last
func (e *Engine) comparePeriods(sorted []Entry) PeriodComparison {
	today := StartOfDay(e.Now())
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))
	lastWeek := thisWeek.AddDate(0, 0, -7)

	var cmp PeriodComparison
	for _, en := range sorted {
		t := en.Instant(e.loc)
		switch {
		case !t.Before(thisWeek):
			cmp.ThisWeek++
		case !t.Before(lastWeek):
			cmp.LastWeek++
		}
	}

	cmp.Change = cmp.ThisWeek - cmp.LastWeek
	if cmp.LastWeek > 0 {
		cmp.ChangePercent = float64(cmp.Change) / float64(cmp.LastWeek) * 100
	}
	cmp.IsBetter = cmp.Change > 0
	return cmp
}

func trendInsights(t *Trends) []Insight {
	insights := []Insight{}

	if t.Overall.Direction != DirectionNeutral {
		in := Insight{Type: "warning", Icon: "trending-down"}
		if t.Overall.Direction == DirectionImproving {
			in = Insight{Type: "success", Icon: "trending-up"}
		}
		in.Message = "Overall trend: " + t.Overall.Description
		insights = append(insights, in)
	}

	if c := t.Comparison; c.ThisWeek > 0 || c.LastWeek > 0 {
		switch {
		case c.IsBetter:
			insights = append(insights, Insight{
				Type:    "success",
				Icon:    "arrow-up",
				Message: fmt.Sprintf("This week: %d entries (+%d vs last week)", c.ThisWeek, c.Change),
			})
		case c.Change < 0:
			insights = append(insights, Insight{
				Type:    "info",
				Icon:    "arrow-down",
				Message: fmt.Sprintf("This week: %d entries (%d vs last week)", c.ThisWeek, c.Change),
			})
		}
	}

	if t.Momentum.Level != MomentumNeutral {
		typ := "warning"
		if t.Momentum.Score > 0.5 {
			typ = "success"
		}
		insights = append(insights, Insight{
			Type:    typ,
			Icon:    "speedometer",
			Message: t.Momentum.Description,
		})
	}

	return insights
}

func trendForecasts(t *Trends) []Insight {
	if t.Weekly.AveragePerWeek <= 0 {
		return []Insight{}
	}
	return []Insight{{
		Type: "projection",
		Icon: "calendar",
		Message: fmt.Sprintf("Based on your trend, you're on track for ~%d entries next week",
			round(t.Weekly.AveragePerWeek)),
	}}
}
