package insights

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Classification is the category guess attached to an entry when it is captured
type Classification struct {
	Category     string   `json:"category"`
	CategoryName string   `json:"categoryName"`
	Confidence   float64  `json:"confidence"`
	Tags         []string `json:"tags,omitempty"`
}

// Entry is one recorded observation of a habit
type Entry struct {
	ID        string          `json:"id,omitempty"`
	HabitID   string          `json:"habitId"`
	Date      string          `json:"date,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Photo     string          `json:"photo,omitempty"`
	Note      string          `json:"note,omitempty"`
	AIData    *Classification `json:"aiData,omitempty"`
}

// Instant returns the best available moment for the entry: CreatedAt, then
// Timestamp, then the legacy Date at local midnight. Zero when none is usable.
func (e Entry) Instant(loc *time.Location) time.Time {
	switch {
	case !e.CreatedAt.IsZero():
		return e.CreatedAt.In(loc)
	case e.Timestamp > 0:
		return time.UnixMilli(e.Timestamp).In(loc)
	}
	return e.dateAt(loc)
}

// Day returns the legacy calendar day of the entry at local midnight,
// falling back to the day of Instant.
func (e Entry) Day(loc *time.Location) time.Time {
	if t := e.dateAt(loc); !t.IsZero() {
		return t
	}
	t := e.Instant(loc)
	if t.IsZero() {
		return t
	}
	return StartOfDay(t)
}

func (e Entry) dateAt(loc *time.Location) time.Time {
	s := strings.TrimSpace(e.Date)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Habit is a tracked behavior
type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Insight is a short typed message with an icon token
type Insight struct {
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

// Suggestion is an actionable recommendation
type Suggestion struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Icon    string `json:"icon"`
}

// ==================== Consistency ====================

// Rating is a categorical consistency rating
type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingFair             Rating = "fair"
	RatingNeedsImprovement Rating = "needs-improvement"
)

type ConsistencyMetrics struct {
	DaysWithEntries    int `json:"daysWithEntries"`
	DaysSinceLastEntry int `json:"daysSinceLastEntry"`
}

type ConsistencyResult struct {
	Score       float64            `json:"score"`
	Consistency Rating             `json:"consistency"`
	Message     string             `json:"message"`
	Insights    []string           `json:"insights"`
	Metrics     ConsistencyMetrics `json:"metrics"`
}

// ==================== Progress ====================

type ProgressMetrics struct {
	TotalDays       int     `json:"totalDays"`
	DaysActive      int     `json:"daysActive"`
	ConsistencyRate float64 `json:"consistencyRate"`
}

type ProgressResult struct {
	HasProgress bool             `json:"hasProgress"`
	Metrics     *ProgressMetrics `json:"metrics,omitempty"`
	Insights    []Insight        `json:"insights"`
}

// ==================== Patterns ====================

// TimeSlot is a time-of-day bucket
type TimeSlot string

const (
	SlotEarlyMorning TimeSlot = "earlyMorning"
	SlotMorning      TimeSlot = "morning"
	SlotAfternoon    TimeSlot = "afternoon"
	SlotEvening      TimeSlot = "evening"
	SlotNight        TimeSlot = "night"
)

// TimeSlots lists the buckets in day order
var TimeSlots = []TimeSlot{SlotEarlyMorning, SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

type TimeOfDayPattern struct {
	Distribution map[TimeSlot]int `json:"distribution"`
	MostFrequent TimeSlot         `json:"mostFrequent"`
	Confidence   float64          `json:"confidence"`
}

type DayOfWeekPattern struct {
	Distribution  map[string]int `json:"distribution"`
	TopDays       []string       `json:"topDays"`
	AveragePerDay float64        `json:"averagePerDay"`
}

type FrequencyPattern struct {
	AverageInterval float64 `json:"averageInterval"`
	Regularity      float64 `json:"regularity"`
	IsRegular       bool    `json:"isRegular"`
}

type OptimalTime struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	TimeSlot   TimeSlot `json:"timeSlot"`
	Confidence float64  `json:"confidence"`
}

type RecentConsistency struct {
	Last7DaysCount int     `json:"last7DaysCount"`
	Consistency    float64 `json:"consistency"`
	IsConsistent   bool    `json:"isConsistent"`
}

type Patterns struct {
	TimeOfDay           TimeOfDayPattern  `json:"timeOfDay"`
	DayOfWeek           DayOfWeekPattern  `json:"dayOfWeek"`
	TrackingFrequency   FrequencyPattern  `json:"trackingFrequency"`
	OptimalTimes        []OptimalTime     `json:"optimalTimes"`
	ConsistencyPatterns RecentConsistency `json:"consistencyPatterns"`
}

type PatternResult struct {
	HasPatterns     bool         `json:"hasPatterns"`
	Patterns        *Patterns    `json:"patterns"`
	Insights        []Insight    `json:"insights"`
	Recommendations []Suggestion `json:"recommendations"`
}

// ==================== Predictions ====================

// RiskLevel grades how likely a streak is to break
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type StreakRisk struct {
	Level                RiskLevel `json:"level"`
	Score                float64   `json:"score"`
	Message              string    `json:"message"`
	HoursSinceLastEntry  float64   `json:"hoursSinceLastEntry"`
	DaysSinceLastEntry   int       `json:"daysSinceLastEntry"`
	AverageIntervalHours float64   `json:"averageIntervalHours"`
}

type OptimalNextTime struct {
	Hour       int       `json:"hour"`
	Date       time.Time `json:"date"`
	Confidence float64   `json:"confidence"`
}

type SuccessFactors struct {
	RecentConsistency float64 `json:"recentConsistency"`
	Duration          float64 `json:"duration"`
	Trend             string  `json:"trend"`
}

type SuccessProbability struct {
	Probability float64         `json:"probability"`
	Confidence  float64         `json:"confidence"`
	Message     string          `json:"message"`
	Factors     *SuccessFactors `json:"factors,omitempty"`
}

type BreakPoint struct {
	Type    string    `json:"type"`
	Days    int       `json:"days"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

type Predictions struct {
	StreakRisk           StreakRisk         `json:"streakRisk"`
	OptimalNextTime      *OptimalNextTime   `json:"optimalNextTime"`
	SuccessProbability   SuccessProbability `json:"successProbability"`
	PotentialBreakPoints []BreakPoint       `json:"potentialBreakPoints"`
}

// AlertType orders alerts by urgency
type AlertType string

const (
	AlertUrgent  AlertType = "urgent"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

type Alert struct {
	Type      AlertType `json:"type"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Action    string    `json:"action"`
	HabitID   string    `json:"habitId,omitempty"`
	HabitName string    `json:"habitName,omitempty"`
}

type PredictionResult struct {
	HasPredictions bool         `json:"hasPredictions"`
	Predictions    *Predictions `json:"predictions"`
	Alerts         []Alert      `json:"alerts"`
	Suggestions    []Suggestion `json:"suggestions"`
}

// ==================== Trends ====================

// Direction of a long-horizon trend
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
	DirectionNeutral   Direction = "neutral"
)

type OverallTrend struct {
	Direction      Direction `json:"direction"`
	Strength       float64   `json:"strength"`
	Description    string    `json:"description"`
	FirstHalfRate  float64   `json:"firstHalfRate,omitempty"`
	SecondHalfRate float64   `json:"secondHalfRate,omitempty"`
}

type WeekBucket struct {
	Week       int       `json:"week"`
	Date       time.Time `json:"date"`
	Count      int       `json:"count"`
	UniqueDays int       `json:"uniqueDays"`
}

type WeeklyTrend struct {
	Weeks          []WeekBucket `json:"weeks"`
	Trend          int          `json:"trend"`
	TrendPercent   float64      `json:"trendPercent"`
	IsImproving    bool         `json:"isImproving"`
	AveragePerWeek float64      `json:"averagePerWeek"`
}

type MonthBucket struct {
	Month      string `json:"month"`
	Count      int    `json:"count"`
	UniqueDays int    `json:"uniqueDays"`
}

type MonthlyTrend struct {
	Months          []MonthBucket `json:"months"`
	AveragePerMonth float64       `json:"averagePerMonth"`
}

// MomentumLevel grades short-horizon change
type MomentumLevel string

const (
	MomentumStrong   MomentumLevel = "strong"
	MomentumPositive MomentumLevel = "positive"
	MomentumNeutral  MomentumLevel = "neutral"
	MomentumNegative MomentumLevel = "negative"
	MomentumWeak     MomentumLevel = "weak"
)

type Momentum struct {
	Score       float64       `json:"score"`
	Level       MomentumLevel `json:"level"`
	Description string        `json:"description,omitempty"`
	Change      int           `json:"change"`
}

type PeriodComparison struct {
	ThisWeek      int     `json:"thisWeek"`
	LastWeek      int     `json:"lastWeek"`
	Change        int     `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	IsBetter      bool    `json:"isBetter"`
}

type Trends struct {
	Overall    OverallTrend     `json:"overall"`
	Weekly     WeeklyTrend      `json:"weekly"`
	Monthly    MonthlyTrend     `json:"monthly"`
	Momentum   Momentum         `json:"momentum"`
	Comparison PeriodComparison `json:"comparison"`
}

type TrendResult struct {
	HasTrends bool      `json:"hasTrends"`
	Trends    *Trends   `json:"trends"`
	Insights  []Insight `json:"insights"`
	Forecasts []Insight `json:"forecasts"`
}

// ==================== Strength ====================

// StrengthLevel classifies the composite strength score
type StrengthLevel string

const (
	StrengthVeryStrong StrengthLevel = "very_strong"
	StrengthStrong     StrengthLevel = "strong"
	StrengthModerate   StrengthLevel = "moderate"
	StrengthDeveloping StrengthLevel = "developing"
	StrengthWeak       StrengthLevel = "weak"
)

type StrengthFactors struct {
	Consistency float64 `json:"consistency"`
	Duration    float64 `json:"duration"`
	Recency     float64 `json:"recency"`
	Frequency   float64 `json:"frequency"`
	Stability   float64 `json:"stability"`
}

type StrengthResult struct {
	Score       float64         `json:"score"`
	Level       StrengthLevel   `json:"level"`
	Factors     StrengthFactors `json:"factors"`
	Insights    []Insight       `json:"insights"`
	Description string          `json:"description"`
}

// ==================== Achievements ====================

// Rarity of an achievement badge
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is an earned milestone. Numeric milestones set Milestone,
// named ones set Badge and leave Milestone at zero.
type Achievement struct {
	Type        string `json:"type"`
	Milestone   int    `json:"milestone"`
	Badge       string `json:"badge,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
}

type UpcomingMilestone struct {
	Type          string `json:"type"`
	Milestone     int    `json:"milestone"`
	DaysRemaining int    `json:"daysRemaining"`
	Title         string `json:"title"`
	Description   string `json:"description"`
}

type AchievementResult struct {
	Achievements       []Achievement       `json:"achievements"`
	UpcomingMilestones []UpcomingMilestone `json:"upcomingMilestones"`
	TotalAchievements  int                 `json:"totalAchievements"`
}

// ==================== Motivation ====================

type MotivationMessage struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Emoji   string `json:"emoji,omitempty"`
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type MotivationResult struct {
	Primary   MotivationMessage   `json:"primary"`
	Secondary []MotivationMessage `json:"secondary"`
	Quotes    []Quote             `json:"quotes"`
}
