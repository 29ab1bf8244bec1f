package dashboard

import (
	"time"

	"github.com/gmsas95/habitlens/internal/insights"
)

// HabitInsight is the per-habit analysis bundle the rollups consume
type HabitInsight struct {
	Habit        insights.Habit             `json:"habit"`
	Consistency  insights.ConsistencyResult `json:"consistency"`
	Strength     insights.StrengthResult    `json:"strength"`
	Trends       insights.TrendResult       `json:"trends"`
	Achievements insights.AchievementResult `json:"achievements"`
	Predictions  insights.PredictionResult  `json:"predictions"`
	EntryCount   int                        `json:"entryCount"`
}

type ConsistencySummary struct {
	AverageScore   float64         `json:"averageScore"`
	Rating         insights.Rating `json:"rating"`
	ExcellentCount int             `json:"excellentCount"`
	GoodCount      int             `json:"goodCount"`
	TotalHabits    int             `json:"totalHabits"`
	Message        string          `json:"message"`
}

type StrengthSummary struct {
	AverageStrength   float64 `json:"averageStrength"`
	StrongHabitsCount int     `json:"strongHabitsCount"`
	TotalHabits       int     `json:"totalHabits"`
	Percentage        int     `json:"percentage"`
}

type TrendSummary struct {
	ImprovingCount   int                `json:"improvingCount"`
	DecliningCount   int                `json:"decliningCount"`
	StableCount      int                `json:"stableCount"`
	TotalHabits      int                `json:"totalHabits"`
	OverallDirection insights.Direction `json:"overallDirection"`
}

type AchievementSummary struct {
	Total    int                          `json:"total"`
	Recent   []insights.Achievement       `json:"recent"`
	Upcoming []insights.UpcomingMilestone `json:"upcoming"`
}

type AlertSummary struct {
	Urgent   []insights.Alert `json:"urgent"`
	Warnings []insights.Alert `json:"warnings"`
	Total    int              `json:"total"`
}

// RankedHabit is a habit ordered by its weighted performance score
type RankedHabit struct {
	Habit       insights.Habit `json:"habit"`
	Score       float64        `json:"score"`
	Strength    float64        `json:"strength"`
	Consistency float64        `json:"consistency"`
}

// AttentionHabit is a habit with an alert or weak scores
type AttentionHabit struct {
	Habit          insights.Habit `json:"habit"`
	Consistency    float64        `json:"consistency"`
	Strength       float64        `json:"strength"`
	HasUrgentAlert bool           `json:"hasUrgentAlert"`
}

type Motivation struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
}

// Insights is the cross-habit dashboard view. Every summary is nil when no
// habit produced a usable bundle.
type Insights struct {
	OverallConsistency     *ConsistencySummary `json:"overallConsistency"`
	OverallStrength        *StrengthSummary    `json:"overallStrength"`
	OverallTrends          *TrendSummary       `json:"overallTrends"`
	TotalAchievements      *AchievementSummary `json:"totalAchievements"`
	RiskAlerts             *AlertSummary       `json:"riskAlerts"`
	MotivationalInsight    *Motivation         `json:"motivationalInsight"`
	TopPerformingHabits    []RankedHabit       `json:"topPerformingHabits"`
	HabitsNeedingAttention []AttentionHabit    `json:"habitsNeedingAttention"`
	HabitsAnalyzed         int                 `json:"habitsAnalyzed"`
	GeneratedAt            time.Time           `json:"generatedAt"`
}

// Empty returns the insights shape used when nothing could be analyzed
func Empty() *Insights {
	return &Insights{
		TopPerformingHabits:    []RankedHabit{},
		HabitsNeedingAttention: []AttentionHabit{},
	}
}

// IsEmpty reports whether no habit contributed to the insights
func (in *Insights) IsEmpty() bool {
	return in == nil || in.OverallConsistency == nil
}

// ==================== Statistics ====================

type OverallStats struct {
	TotalHabits    int `json:"totalHabits"`
	TotalEntries   int `json:"totalEntries"`
	TotalStreaks   int `json:"totalStreaks"`
	AverageStreak  int `json:"averageStreak"`
	CompletionRate int `json:"completionRate"`
}

type DayCount struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type HabitShare struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type TopHabit struct {
	Habit        insights.Habit  `json:"habit"`
	Streak       int             `json:"streak"`
	TotalEntries int             `json:"totalEntries"`
	LatestEntry  *insights.Entry `json:"latestEntry,omitempty"`
}

type StreakStats struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
	Average int `json:"average"`
	Total   int `json:"total"`
}

// Stats bundles the chart-oriented dashboard statistics
type Stats struct {
	Overall         OverallStats     `json:"overall"`
	EntriesOverTime []DayCount       `json:"entriesOverTime"`
	Distribution    []HabitShare     `json:"distribution"`
	WeeklyPattern   []WeekdayCount   `json:"weeklyPattern"`
	TopHabits       []TopHabit       `json:"topHabits"`
	Streaks         StreakStats      `json:"streaks"`
	RecentActivity  []insights.Entry `json:"recentActivity"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}
