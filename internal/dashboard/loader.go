package dashboard

import (
	"fmt"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/gmsas95/habitlens/internal/insights"
	"go.uber.org/zap"
)

// LoadHabit runs the five dashboard analyses for one habit concurrently.
// Each analysis gets its own copy of the entries. A panic in any of them is
// returned as an error instead of crashing the batch.
func (a *Aggregator) LoadHabit(habit insights.Habit, entries []insights.Entry) (hi *HabitInsight, err error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("habit %s has no entries", habit.ID)
	}

	defer func() {
		if r := recover(); r != nil {
			hi, err = nil, fmt.Errorf("habit analysis panicked: %v", r)
		}
	}()

	out := &HabitInsight{Habit: habit, EntryCount: len(entries)}
	failures := make([]error, 5)

	var wg sync.WaitGroup
	run := func(slot int, name string, fn func(own []insights.Entry)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[slot] = fmt.Errorf("%s analysis panicked: %v", name, r)
					a.logger.Debug("Analyzer panic", zap.String("analyzer", name), zap.ByteString("stack", debug.Stack()))
				}
			}()
			fn(slices.Clone(entries))
			a.metrics.RecordAnalysis(name)
		}()
	}

	run(0, "consistency", func(own []insights.Entry) { out.Consistency = a.analyzer.AnalyzeConsistency(own) })
	run(1, "strength", func(own []insights.Entry) { out.Strength = a.analyzer.AnalyzeStrength(own) })
	run(2, "trends", func(own []insights.Entry) { out.Trends = a.analyzer.AnalyzeTrends(own) })
	run(3, "achievements", func(own []insights.Entry) { out.Achievements = a.analyzer.RecognizeAchievements(own) })
	run(4, "predictions", func(own []insights.Entry) { out.Predictions = a.analyzer.AnalyzePredictions(own, habit) })
	wg.Wait()

	for _, f := range failures {
		if f != nil {
			return nil, f
		}
	}
	return out, nil
}
