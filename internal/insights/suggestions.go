package insights

import "fmt"

const (
	reminderAfterHours = 24
	reminderUntilHours = 48
)

// GenerateSuggestions returns consistency, reminder and milestone nudges
func (e *Engine) GenerateSuggestions(habit Habit, entries []Entry) []Suggestion {
	entries = e.usable(entries)
	suggestions := []Suggestion{}
	consistency := e.AnalyzeConsistency(entries)

	if consistency.Score < 0.6 {
		suggestions = append(suggestions, Suggestion{
			Type:    "consistency",
			Title:   "Improve Consistency",
			Message: "Try to track your habit at the same time every day. Consistency is key!",
			Action:  "Set a daily reminder",
			Icon:    "time",
		})
	}

	if len(entries) > 0 {
		newest := RecentEntries(entries, 1, e.loc)[0]
		hours := HoursBetween(newest.Day(e.loc), e.Now())
		if hours > reminderAfterHours && hours < reminderUntilHours {
			suggestions = append(suggestions, Suggestion{
				Type:    "reminder",
				Title:   "Time to Track!",
				Message: fmt.Sprintf("You haven't tracked \"%s\" today. Capture a photo to keep your streak going!", habit.Name),
				Action:  "Capture now",
				Icon:    "camera",
			})
		}
	}

	if len(entries) >= 7 && consistency.Score >= 0.8 {
		suggestions = append(suggestions, Suggestion{
			Type:    "milestone",
			Title:   "You're Doing Great!",
			Message: "You've maintained excellent consistency. Consider adding a related habit to build on this success!",
			Action:  "Explore habits",
			Icon:    "sparkles",
		})
	}

	return suggestions
}
