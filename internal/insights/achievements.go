package insights

import (
	"fmt"
	"sort"
)

var (
	dayMilestones        = []int{1, 3, 7, 14, 21, 30, 50, 100, 365}
	streakMilestones     = []int{3, 7, 14, 21, 30, 60, 100}
	upcomingDayTargets   = []int{7, 14, 21, 30, 50, 100}
	upcomingStreakTarget = []int{7, 14, 21, 30}
)

var dayMilestoneTitles = map[int]string{
	1:   "Getting Started! 🌱",
	3:   "Three Days Strong! 💪",
	7:   "One Week Complete! ⭐",
	14:  "Two Weeks! 🎉",
	21:  "Habit Formed! 🔥",
	30:  "One Month! 🏆",
	50:  "50 Days! 🌟",
	100: "100 Days! 💯",
	365: "One Year! 🎊",
}

// RecognizeAchievements lists earned milestones and those within reach
func (e *Engine) RecognizeAchievements(entries []Entry) AchievementResult {
	entries = e.usable(entries)
	if len(entries) == 0 {
		return AchievementResult{
			Achievements:       []Achievement{},
			UpcomingMilestones: []UpcomingMilestone{},
		}
	}

	sorted := SortByInstant(entries, false, e.loc)
	uniqueDays := len(UniqueDayKeys(sorted, e.loc))
	streak := GraceStreak(sorted, e.Now())

	achievements := dayAchievements(uniqueDays)
	achievements = append(achievements, streakAchievements(streak)...)
	achievements = append(achievements, e.consistencyAchievements(sorted)...)
	achievements = append(achievements, e.specialAchievements(sorted)...)

	return AchievementResult{
		Achievements:       achievements,
		UpcomingMilestones: upcomingMilestones(uniqueDays, streak),
		TotalAchievements:  len(achievements),
	}
}

func dayAchievements(uniqueDays int) []Achievement {
	out := []Achievement{}
	for _, days := range dayMilestones {
		if uniqueDays < days {
			continue
		}
		out = append(out, Achievement{
			Type:        "days",
			Milestone:   days,
			Title:       dayMilestoneTitle(days),
			Description: dayMilestoneDescription(days),
			Icon:        dayMilestoneIcon(days),
			Rarity:      dayRarity(days),
		})
	}
	return out
}

func streakAchievements(streak int) []Achievement {
	out := []Achievement{}
	for _, s := range streakMilestones {
		if streak < s {
			continue
		}
		rarity := RarityCommon
		switch {
		case s >= 30:
			rarity = RarityEpic
		case s >= 14:
			rarity = RarityRare
		}
		out = append(out, Achievement{
			Type:        "streak",
			Milestone:   s,
			Title:       fmt.Sprintf("%d-Day Streak! 🔥", s),
			Description: fmt.Sprintf("You've maintained a %d-day streak!", s),
			Icon:        "flame",
			Rarity:      rarity,
		})
	}
	return out
}

// consistencyAchievements expects entries oldest first
func (e *Engine) consistencyAchievements(sorted []Entry) []Achievement {
	out := []Achievement{}

	if len(sorted) >= 7 && len(UniqueDayKeys(sorted[len(sorted)-7:], e.loc)) == 7 {
		out = append(out, Achievement{
			Type:        "consistency",
			Badge:       "perfect_week",
			Title:       "Perfect Week! ⭐",
			Description: "You tracked every day for 7 days in a row!",
			Icon:        "star",
			Rarity:      RarityRare,
		})
	}

	if len(sorted) >= 30 && len(UniqueDayKeys(sorted[len(sorted)-30:], e.loc)) >= 25 {
		out = append(out, Achievement{
			Type:        "consistency",
			Badge:       "month_consistency",
			Title:       "Monthly Champion! 🏆",
			Description: "You tracked at least 25 days in the last month!",
			Icon:        "trophy",
			Rarity:      RarityEpic,
		})
	}

	return out
}

func (e *Engine) specialAchievements(sorted []Entry) []Achievement {
	out := []Achievement{}

	early, night := 0, 0
	for _, en := range sorted {
		h := en.Instant(e.loc).Hour()
		switch {
		case h >= 5 && h < 8:
			early++
		case h >= 21 || h < 5:
			night++
		}
	}

	if early >= 10 {
		out = append(out, Achievement{
			Type:        "special",
			Badge:       "early_bird",
			Title:       "Early Bird! 🌅",
			Description: "You've tracked 10+ times in the early morning!",
			Icon:        "sunny",
			Rarity:      RarityRare,
		})
	}
	if night >= 10 {
		out = append(out, Achievement{
			Type:        "special",
			Badge:       "night_owl",
			Title:       "Night Owl! 🦉",
			Description: "You've tracked 10+ times late at night!",
			Icon:        "moon",
			Rarity:      RarityRare,
		})
	}

	return out
}

func upcomingMilestones(uniqueDays, streak int) []UpcomingMilestone {
	out := []UpcomingMilestone{}

	for _, m := range upcomingDayTargets {
		if uniqueDays >= m || uniqueDays < m-3 {
			continue
		}
		left := m - uniqueDays
		out = append(out, UpcomingMilestone{
			Type:          "days",
			Milestone:     m,
			DaysRemaining: left,
			Title:         fmt.Sprintf("%d Days", m),
			Description:   fmt.Sprintf("Just %d more %s to reach %d days!", left, pluralDay(left), m),
		})
	}

	for _, m := range upcomingStreakTarget {
		if streak >= m || streak < m-2 {
			continue
		}
		left := m - streak
		out = append(out, UpcomingMilestone{
			Type:          "streak",
			Milestone:     m,
			DaysRemaining: left,
			Title:         fmt.Sprintf("%d-Day Streak", m),
			Description:   fmt.Sprintf("Maintain your streak for %d more %s!", left, pluralDay(left)),
		})
	}

	return out
}

func pluralDay(n int) string {
	if n > 1 {
		return "days"
	}
	return "day"
}

func dayMilestoneTitle(days int) string {
	if t, ok := dayMilestoneTitles[days]; ok {
		return t
	}
	return fmt.Sprintf("%d Days! 🎉", days)
}

func dayMilestoneDescription(days int) string {
	switch days {
	case 21:
		return "Research shows 21 days to form a habit - you've done it!"
	case 100:
		return "100 days of tracking - you're a habit master!"
	case 365:
		return "A full year of tracking - incredible dedication!"
	}
	return fmt.Sprintf("You've tracked for %d days!", days)
}

func dayMilestoneIcon(days int) string {
	switch {
	case days >= 100:
		return "diamond"
	case days >= 30:
		return "trophy"
	case days >= 21:
		return "flame"
	case days >= 7:
		return "star"
	}
	return "checkmark-circle"
}

func dayRarity(days int) Rarity {
	switch {
	case days >= 100:
		return RarityLegendary
	case days >= 30:
		return RarityEpic
	case days >= 14:
		return RarityRare
	}
	return RarityCommon
}

// SortByMilestone orders achievements by numeric milestone, largest first.
// Named achievements keep their relative order after the numeric ones.
func SortByMilestone(achievements []Achievement) []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Milestone > out[j].Milestone })
	return out
}
