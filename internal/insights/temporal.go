package insights

import (
	"math"
	"sort"
	"time"
)

const day = 24 * time.Hour

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// DaysBetween returns the number of whole 24h periods between a and b.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d / day)
}

// HoursBetween returns the absolute distance between a and b in hours.
func HoursBetween(a, b time.Time) float64 {
	return math.Abs(b.Sub(a).Hours())
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as a calendar-day key.
func DayKey(t time.Time) string {
	return t.Format(dateLayout)
}

// UniqueDayKeys returns the set of calendar days on which entries occurred.
func UniqueDayKeys(entries []Entry, loc *time.Location) map[string]struct{} {
	keys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		t := e.Instant(loc)
		if t.IsZero() {
			continue
		}
		keys[DayKey(t)] = struct{}{}
	}
	return keys
}

// TimeOfDayBucket maps the hour of t to one of the five analysis slots.
func TimeOfDayBucket(t time.Time) TimeSlot {
	switch h := t.Hour(); {
	case h >= 5 && h < 8:
		return SlotEarlyMorning
	case h >= 8 && h < 12:
		return SlotMorning
	case h >= 12 && h < 17:
		return SlotAfternoon
	case h >= 17 && h < 21:
		return SlotEvening
	default:
		return SlotNight
	}
}

// DayOfWeekName returns the lowercase English weekday name of t.
func DayOfWeekName(t time.Time) string {
	return weekdayNames[t.Weekday()]
}

// RecencyScore decays linearly from 1 to 0 over penaltyDays.
func RecencyScore(daysSinceLast, penaltyDays float64) float64 {
	return math.Max(0, 1-daysSinceLast/penaltyDays)
}

// FrequencyScore is count per period, capped at 1.
func FrequencyScore(count, periodDays float64) float64 {
	return math.Min(count/periodDays, 1)
}

// RecentEntries returns up to n entries ordered newest calendar day first.
func RecentEntries(entries []Entry, n int, loc *time.Location) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day(loc).After(sorted[j].Day(loc))
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// SortByInstant returns a copy of entries ordered by Instant.
func SortByInstant(entries []Entry, desc bool, loc *time.Location) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Instant(loc), sorted[j].Instant(loc)
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})
	return sorted
}

// civilDay numbers calendar days so that consecutive dates differ by one
// regardless of DST transitions.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
