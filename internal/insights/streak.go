package insights

import (
	"sort"
	"time"
)

// CurrentStreak counts consecutive tracked days ending today or yesterday.
// gapDays is the number of untracked days tolerated between two tracked ones.
func CurrentStreak(entries []Entry, now time.Time, gapDays int) int {
	if len(entries) == 0 {
		return 0
	}
	loc := now.Location()

	seen := make(map[int64]struct{}, len(entries))
	days := make([]int64, 0, len(entries))
	for _, e := range entries {
		t := e.Instant(loc)
		if t.IsZero() {
			continue
		}
		d := civilDay(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	today := civilDay(now)
	if diff := today - days[0]; diff < 0 || diff > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] > int64(1+gapDays) {
			break
		}
		streak++
	}
	return streak
}

// StrictStreak counts only unbroken runs of days.
func StrictStreak(entries []Entry, now time.Time) int {
	return CurrentStreak(entries, now, 0)
}

// GraceStreak tolerates a single missed day between tracked days.
func GraceStreak(entries []Entry, now time.Time) int {
	return CurrentStreak(entries, now, 1)
}
