package insights

import (
	"time"

	"go.uber.org/zap"
)

// testNow is a Sunday evening
var testNow = time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop(),
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
}

func at(month time.Month, day, hour int) time.Time {
	year := 2024
	if month == time.December || month == time.November {
		year = 2023
	}
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func entryAt(t time.Time) Entry {
	return Entry{HabitID: "habit_1", Date: t.Format(dateLayout), CreatedAt: t}
}

func entriesAt(times ...time.Time) []Entry {
	out := make([]Entry, 0, len(times))
	for _, t := range times {
		out = append(out, entryAt(t))
	}
	return out
}

// dailyEntries returns n entries, one per day at hour, the newest on last.
func dailyEntries(n int, last time.Time, hour int) []Entry {
	out := make([]Entry, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := last.AddDate(0, 0, -i)
		out = append(out, entryAt(time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)))
	}
	return out
}

// spacedEntries returns n entries gapDays apart at 09:00, the newest on last.
func spacedEntries(n, gapDays int, last time.Time) []Entry {
	out := make([]Entry, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := last.AddDate(0, 0, -i*gapDays)
		out = append(out, entryAt(time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)))
	}
	return out
}

var testHabit = Habit{ID: "habit_1", Name: "Read"}
