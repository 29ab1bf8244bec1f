package dashboard

import (
	"time"

	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/metrics"
)

// testNow is a Sunday evening
var testNow = time.Date(2024, time.January, 7, 20, 0, 0, 0, time.UTC)

var (
	readHabit = insights.Habit{ID: "habit_read", Name: "Read", Color: "#4F46E5"}
	walkHabit = insights.Habit{ID: "habit_walk", Name: "Walk", Color: "#10B981"}
	napHabit  = insights.Habit{ID: "habit_nap", Name: "Nap"}
)

func newTestEngine() *insights.Engine {
	return insights.NewEngine(nil,
		insights.WithClock(func() time.Time { return testNow }),
		insights.WithLocation(time.UTC),
	)
}

func newTestAggregator() (*Aggregator, *metrics.Metrics) {
	m := metrics.New()
	return NewAggregator(newTestEngine(), nil, WithMetrics(m)), m
}

func entryOn(habitID string, month time.Month, day, hour int) insights.Entry {
	year := 2024
	if month > time.February {
		year = 2023
	}
	return insights.Entry{
		HabitID:   habitID,
		CreatedAt: time.Date(year, month, day, hour, 0, 0, 0, time.UTC),
	}
}

// sampleEntries: Read every day Jan 1-7, Walk on Jan 6-7 plus one in November
func sampleEntries() []insights.Entry {
	var entries []insights.Entry
	for d := 1; d <= 7; d++ {
		entries = append(entries, entryOn(readHabit.ID, time.January, d, 10))
	}
	entries = append(entries,
		entryOn(walkHabit.ID, time.January, 6, 18),
		entryOn(walkHabit.ID, time.January, 7, 18),
		entryOn(walkHabit.ID, time.November, 1, 18),
	)
	return entries
}

func bundle(h insights.Habit, consistency, strength float64) HabitInsight {
	return HabitInsight{
		Habit:       h,
		Consistency: insights.ConsistencyResult{Score: consistency},
		Strength:    insights.StrengthResult{Score: strength},
		EntryCount:  1,
	}
}
