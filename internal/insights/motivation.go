package insights

import "fmt"

type primaryTier struct {
	minDays int
	msg     MotivationMessage
}

// Ordered from the highest threshold down.
var primaryTiers = []primaryTier{
	{365, MotivationMessage{"A full year of dedication! You're a true habit master! 🎊", "celebration", "trophy", "🎊"}},
	{100, MotivationMessage{"100 days! You've transformed this into a lifestyle! 💯", "celebration", "diamond", "💯"}},
	{30, MotivationMessage{"One month strong! You're building something amazing! 🏆", "success", "trophy", "🏆"}},
	{21, MotivationMessage{"Habit formed! Research shows you've crossed the 21-day threshold! 🔥", "success", "flame", "🔥"}},
	{14, MotivationMessage{"Two weeks down! You're making this a real habit! ⭐", "encouragement", "star", "⭐"}},
	{7, MotivationMessage{"One week complete! Keep this momentum going! 💪", "encouragement", "checkmark-circle", "💪"}},
}

var (
	trackedTodayMessage = MotivationMessage{"Great job tracking today! Consistency is key to success! ✨", "encouragement", "sparkles", "✨"}
	onTrackMessage      = MotivationMessage{"You're on the right track! Every entry counts toward your goal! 🌱", "encouragement", "leaf", "🌱"}
	firstStepMessage    = MotivationMessage{Message: "Every journey begins with a single step. Start tracking today!", Type: "encouragement", Icon: "rocket"}
)

var quotes = []Quote{
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Aristotle"},
	{Text: "Small steps every day lead to big changes over time.", Author: "Unknown"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "Success is the sum of small efforts repeated day in and day out.", Author: "Robert Collier"},
}

// GenerateMotivation produces a tiered encouragement message for a habit
func (e *Engine) GenerateMotivation(entries []Entry, habit Habit) MotivationResult {
	entries = e.usable(entries)
	if len(entries) == 0 {
		return MotivationResult{
			Primary:   firstStepMessage,
			Secondary: []MotivationMessage{},
			Quotes:    []Quote{},
		}
	}

	sorted := SortByInstant(entries, true, e.loc)
	uniqueDays := len(UniqueDayKeys(sorted, e.loc))

	return MotivationResult{
		Primary:   e.primaryMessage(sorted, uniqueDays),
		Secondary: e.secondaryMessages(sorted, uniqueDays),
		Quotes:    []Quote{quoteFor(uniqueDays)},
	}
}

func (e *Engine) primaryMessage(sorted []Entry, uniqueDays int) MotivationMessage {
	for _, tier := range primaryTiers {
		if uniqueDays >= tier.minDays {
			return tier.msg
		}
	}
	if e.Now().Sub(sorted[0].Instant(e.loc)).Hours() < 24 {
		return trackedTodayMessage
	}
	return onTrackMessage
}

func (e *Engine) secondaryMessages(sorted []Entry, uniqueDays int) []MotivationMessage {
	msgs := []MotivationMessage{}
	now := e.Now()

	recent := make(map[string]struct{})
	for _, en := range sorted {
		t := en.Instant(e.loc)
		if now.Sub(t).Hours()/24 <= 7 {
			recent[DayKey(t)] = struct{}{}
		}
	}

	if len(recent) >= 6 {
		msgs = append(msgs, MotivationMessage{
			Message: "Amazing consistency this week! You're unstoppable!",
			Type:    "success",
			Icon:    "flame",
		})
	}
	if uniqueDays >= 3 && uniqueDays < 7 {
		msgs = append(msgs, MotivationMessage{
			Message: "You're building momentum! Keep going and you'll form a strong habit!",
			Type:    "encouragement",
			Icon:    "trending-up",
		})
	}
	if streak := GraceStreak(sorted, now); streak >= 7 {
		msgs = append(msgs, MotivationMessage{
			Message: fmt.Sprintf("%d-day streak! Your dedication is inspiring!", streak),
			Type:    "celebration",
			Icon:    "flame",
		})
	}

	return msgs
}

func quoteFor(uniqueDays int) Quote {
	switch {
	case uniqueDays >= 21:
		return quotes[0]
	case uniqueDays >= 7:
		return quotes[1]
	}
	return quotes[2]
}
