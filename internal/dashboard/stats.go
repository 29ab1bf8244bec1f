package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/gmsas95/habitlens/internal/insights"
)

const (
	completionWindowDays = 30
	recentActivityLimit  = 10
)

var shortWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Stats computes every chart statistic with default windows
func (a *Aggregator) Stats(habits []insights.Habit, entries []insights.Entry) *Stats {
	return &Stats{
		Overall:         a.OverallStats(habits, entries),
		EntriesOverTime: a.EntriesOverTime(entries, 30),
		Distribution:    HabitDistribution(habits, entries),
		WeeklyPattern:   a.WeeklyPattern(entries),
		TopHabits:       a.TopHabits(habits, entries, 5),
		Streaks:         a.StreakStats(habits, entries),
		RecentActivity:  a.RecentActivity(entries, 7),
		GeneratedAt:     a.analyzer.Now(),
	}
}

func (a *Aggregator) streaks(habits []insights.Habit, entries []insights.Entry) []int {
	byHabit := GroupEntries(entries)
	now := a.analyzer.Now()
	out := make([]int, len(habits))
	for i, h := range habits {
		out[i] = insights.StrictStreak(byHabit[h.ID], now)
	}
	return out
}

func (a *Aggregator) today() time.Time {
	return insights.StartOfDay(a.analyzer.Now())
}

// OverallStats summarizes totals, streaks and the 30-day completion rate
func (a *Aggregator) OverallStats(habits []insights.Habit, entries []insights.Entry) OverallStats {
	stats := OverallStats{
		TotalHabits:  len(habits),
		TotalEntries: len(entries),
	}
	for _, s := range a.streaks(habits, entries) {
		stats.TotalStreaks += s
	}
	if len(habits) == 0 {
		return stats
	}
	stats.AverageStreak = int(math.Round(float64(stats.TotalStreaks) / float64(len(habits))))

	loc := a.analyzer.Location()
	cutoff := a.today().AddDate(0, 0, -completionWindowDays)
	recent := 0
	for _, e := range entries {
		if d := e.Day(loc); !d.IsZero() && !d.Before(cutoff) {
			recent++
		}
	}
	rate := int(math.Round(float64(recent) / float64(len(habits)*completionWindowDays) * 100))
	stats.CompletionRate = min(rate, 100)
	return stats
}

// EntriesOverTime counts entries per calendar day for the last n days, oldest first
func (a *Aggregator) EntriesOverTime(entries []insights.Entry, days int) []DayCount {
	loc := a.analyzer.Location()
	counts := make(map[string]int)
	for _, e := range entries {
		if d := e.Day(loc); !d.IsZero() {
			counts[insights.DayKey(d)]++
		}
	}

	today := a.today()
	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := insights.DayKey(d)
		out = append(out, DayCount{
			Date:  key,
			Day:   shortWeekdays[d.Weekday()],
			Count: counts[key],
		})
	}
	return out
}

// HabitDistribution returns entry counts per habit, largest first
func HabitDistribution(habits []insights.Habit, entries []insights.Entry) []HabitShare {
	byHabit := GroupEntries(entries)
	out := make([]HabitShare, len(habits))
	for i, h := range habits {
		n := len(byHabit[h.ID])
		share := HabitShare{ID: h.ID, Name: h.Name, Color: h.Color, Count: n}
		if len(entries) > 0 {
			share.Percentage = int(math.Round(float64(n) / float64(len(entries)) * 100))
		}
		out[i] = share
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// WeeklyPattern counts entries by weekday, Sunday first
func (a *Aggregator) WeeklyPattern(entries []insights.Entry) []WeekdayCount {
	loc := a.analyzer.Location()
	out := make([]WeekdayCount, len(shortWeekdays))
	for i, name := range shortWeekdays {
		out[i].Day = name
	}
	for _, e := range entries {
		if d := e.Day(loc); !d.IsZero() {
			out[d.Weekday()].Count++
		}
	}
	return out
}

// TopHabits ranks habits by current streak, then by entry count
func (a *Aggregator) TopHabits(habits []insights.Habit, entries []insights.Entry, limit int) []TopHabit {
	byHabit := GroupEntries(entries)
	streaks := a.streaks(habits, entries)
	loc := a.analyzer.Location()

	out := make([]TopHabit, len(habits))
	for i, h := range habits {
		top := TopHabit{Habit: h, Streak: streaks[i], TotalEntries: len(byHabit[h.ID])}
		if latest := insights.RecentEntries(byHabit[h.ID], 1, loc); len(latest) == 1 {
			top.LatestEntry = &latest[0]
		}
		out[i] = top
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		return out[i].TotalEntries > out[j].TotalEntries
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StreakStats summarizes non-zero current streaks
func (a *Aggregator) StreakStats(habits []insights.Habit, entries []insights.Entry) StreakStats {
	var stats StreakStats
	for _, s := range a.streaks(habits, entries) {
		if s == 0 {
			continue
		}
		stats.Current += s
		stats.Longest = max(stats.Longest, s)
		stats.Total++
	}
	if stats.Total > 0 {
		stats.Average = int(math.Round(float64(stats.Current) / float64(stats.Total)))
	}
	return stats
}

// RecentActivity returns up to ten entries from the last n days, newest first
func (a *Aggregator) RecentActivity(entries []insights.Entry, days int) []insights.Entry {
	loc := a.analyzer.Location()
	cutoff := a.today().AddDate(0, 0, -days)

	recent := []insights.Entry{}
	for _, e := range entries {
		if d := e.Day(loc); !d.IsZero() && !d.Before(cutoff) {
			recent = append(recent, e)
		}
	}
	return insights.RecentEntries(recent, recentActivityLimit, loc)
}
