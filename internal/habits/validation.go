package habits

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/security"
)

const (
	minNameLength        = 2
	maxNameLength        = 50
	maxDescriptionLength = 200
	maxNoteLength        = 1000
	maxPhotoSize         = 8 << 20
)

// Palette is the set of colors assigned to new habits in turn
var Palette = []string{"#6366f1", "#8b5cf6", "#ec4899", "#f59e0b", "#10b981", "#3b82f6"}

var (
	nameValidator = security.NewTextValidator(4 * maxNameLength)
	noteValidator = security.NewNoteValidator(4 * maxNoteLength)
	// photo references are data URLs or paths, so only size and encoding matter
	photoValidator = &security.TextValidator{MaxSize: maxPhotoSize}
)

// ValidateName checks a habit name after trimming
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return apperrors.New(apperrors.ErrHabitNameInvalid.Code, "Habit name is required")
	case n < minNameLength:
		return apperrors.New(apperrors.ErrHabitNameInvalid.Code, "Habit name must be at least 2 characters")
	case n > maxNameLength:
		return apperrors.New(apperrors.ErrHabitNameInvalid.Code, "Habit name must be less than 50 characters")
	}
	if err := nameValidator.Validate(name); err != nil {
		return apperrors.New(apperrors.ErrHabitNameInvalid.Code, "Habit name contains invalid characters", err)
	}
	return nil
}

// ValidateDescription checks the optional description
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return apperrors.New(apperrors.ErrHabitDescInvalid.Code, "Description must be less than 200 characters")
	}
	if err := noteValidator.Validate(description); err != nil {
		return apperrors.New(apperrors.ErrHabitDescInvalid.Code, "Description contains invalid characters", err)
	}
	return nil
}

// ValidateEntry checks the photo reference and note of a new entry
func ValidateEntry(photo, note string) error {
	if err := photoValidator.Validate(photo); err != nil {
		return apperrors.New(apperrors.ErrEntryInvalid.Code, "Photo is invalid", err)
	}
	if utf8.RuneCountInString(note) > maxNoteLength {
		return apperrors.New(apperrors.ErrEntryInvalid.Code, "Note must be less than 1000 characters")
	}
	if err := noteValidator.Validate(note); err != nil {
		return apperrors.New(apperrors.ErrEntryInvalid.Code, "Note contains invalid characters", err)
	}
	return nil
}

// Validate checks a habit input
func (in HabitInput) Validate() error {
	if err := ValidateName(in.Name); err != nil {
		return err
	}
	return ValidateDescription(in.Description)
}
