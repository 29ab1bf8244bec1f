// Package classify guesses a habit category from its name and derives the
// tags stored with each entry.
package classify

import (
	"math"
	"strings"
	"time"
)

const (
	highConfidence   = 0.8
	mediumConfidence = 0.6
	keywordBonus     = 0.05
	maxKeywordBonus  = 0.1
)

// Category is a habit category with the keywords that select it
type Category struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Icon     string   `json:"icon" yaml:"icon"`
	Color    string   `json:"color" yaml:"color"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
}

// Matches counts keywords contained in the lowercased name
func (c Category) Matches(lowerName string) int {
	n := 0
	for _, kw := range c.Keywords {
		if strings.Contains(lowerName, kw) {
			n++
		}
	}
	return n
}

// Categories in match order. Other has no keywords and is the fallback.
var Categories = []Category{
	{ID: "fitness", Name: "Fitness", Icon: "fitness", Color: "#f59e0b",
		Keywords: []string{"gym", "workout", "exercise", "running", "yoga", "fitness", "weights", "dumbbell"}},
	{ID: "food", Name: "Food & Nutrition", Icon: "restaurant", Color: "#ec4899",
		Keywords: []string{"food", "meal", "breakfast", "lunch", "dinner", "cooking", "kitchen", "plate"}},
	{ID: "workspace", Name: "Workspace", Icon: "briefcase", Color: "#6366f1",
		Keywords: []string{"desk", "workspace", "office", "computer", "laptop", "study", "desk"}},
	{ID: "reading", Name: "Reading", Icon: "book", Color: "#8b5cf6",
		Keywords: []string{"book", "reading", "library", "study", "text", "page", "novel"}},
	{ID: "outdoor", Name: "Outdoor", Icon: "sunny", Color: "#10b981",
		Keywords: []string{"outdoor", "nature", "park", "hiking", "outdoor", "landscape", "tree"}},
	Other,
}

// Other is the fallback category
var Other = Category{ID: "other", Name: "Other", Icon: "ellipse", Color: "#6b7280"}

// CategoryByID returns the category with id, or Other
func CategoryByID(id string) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Other
}

// Detect returns the first category with a keyword in the name
func Detect(habitName string) Category {
	lower := strings.ToLower(habitName)
	if lower == "" {
		return Other
	}
	for _, c := range Categories {
		if c.Matches(lower) > 0 {
			return c
		}
	}
	return Other
}

// CategoryScore is one category's confidence in a classification
type CategoryScore struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of classifying a habit name
type Result struct {
	Category      string          `json:"category"`
	CategoryName  string          `json:"categoryName"`
	Confidence    float64         `json:"confidence"`
	AllCategories []CategoryScore `json:"allCategories"`
}

// Classify guesses the category for a habit. More matching keywords raise
// the confidence; the fallback category gets a medium confidence.
func Classify(habitName string) Result {
	c := Detect(habitName)
	confidence := mediumConfidence
	if c.ID != Other.ID {
		bonus := math.Min(float64(c.Matches(strings.ToLower(habitName)))*keywordBonus, maxKeywordBonus)
		confidence = math.Min(highConfidence+bonus, 1)
	}

	all := make([]CategoryScore, len(Categories))
	for i, cat := range Categories {
		all[i] = CategoryScore{ID: cat.ID, Name: cat.Name}
		if cat.ID == c.ID {
			all[i].Confidence = confidence
		}
	}

	return Result{
		Category:      c.ID,
		CategoryName:  c.Name,
		Confidence:    confidence,
		AllCategories: all,
	}
}

// TimeTag buckets the hour of t into the coarse entry tag
func TimeTag(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}

// Tags returns the category, time-of-day and weekday tags for an entry
func Tags(categoryID string, at time.Time) []string {
	tags := make([]string, 0, 3)
	for _, c := range Categories {
		if c.ID == categoryID {
			tags = append(tags, strings.ToLower(c.Name))
			break
		}
	}
	return append(tags, TimeTag(at), strings.ToLower(at.Weekday().String()))
}

// Quality is the assessment of an entry photo
type Quality struct {
	IsGood      bool     `json:"isGood"`
	Score       float64  `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// AssessQuality reports on a photo reference. Pixel analysis is not done;
// any present photo is accepted.
func AssessQuality(photo string) Quality {
	if strings.TrimSpace(photo) == "" {
		return Quality{Feedback: "No photo provided", Suggestions: []string{}}
	}
	return Quality{IsGood: true, Score: 0.9, Feedback: "Photo looks good!", Suggestions: []string{}}
}
