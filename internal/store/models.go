package store

import (
	"encoding/json"
	"time"

	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit is a tracked behavior
type Habit struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Entries []Entry `json:"-" gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns an ID to new habits
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// Insight converts the row to the analytics representation
func (h Habit) Insight() insights.Habit {
	return insights.Habit{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Color:       h.Color,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

// Entry is one check-in of a habit. Date is the local calendar day
// (YYYY-MM-DD); a habit has at most one entry per day.
type Entry struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	HabitID   string          `gorm:"uniqueIndex:idx_habit_day;not null" json:"habitId"`
	Date      string          `gorm:"uniqueIndex:idx_habit_day;not null" json:"date"`
	Photo     string          `json:"photo,omitempty"`
	Note      string          `json:"note,omitempty"`
	AIData    json.RawMessage `json:"aiData,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
}

// BeforeCreate assigns an ID to new entries
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Classification decodes the stored category guess, if any
func (e Entry) Classification() *insights.Classification {
	if len(e.AIData) == 0 {
		return nil
	}
	var c insights.Classification
	if err := json.Unmarshal(e.AIData, &c); err != nil {
		return nil
	}
	return &c
}

// SetClassification encodes a category guess onto the entry
func (e *Entry) SetClassification(c *insights.Classification) {
	if c == nil {
		e.AIData = nil
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	e.AIData = data
}

// Insight converts the row to the analytics representation
func (e Entry) Insight() insights.Entry {
	return insights.Entry{
		ID:        e.ID,
		HabitID:   e.HabitID,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
		Photo:     e.Photo,
		Note:      e.Note,
		AIData:    e.Classification(),
	}
}

// HabitsToInsights converts a slice of rows
func HabitsToInsights(habits []Habit) []insights.Habit {
	out := make([]insights.Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Insight()
	}
	return out
}

// EntriesToInsights converts a slice of rows
func EntriesToInsights(entries []Entry) []insights.Entry {
	out := make([]insights.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Insight()
	}
	return out
}
