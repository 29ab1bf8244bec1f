package security

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInputTooLarge     = errors.New("input exceeds maximum size")
	ErrNullByteDetected  = errors.New("null byte detected in input")
	ErrControlCharacter  = errors.New("control character in input")
	ErrInvalidEncoding   = errors.New("input is not valid UTF-8")
	ErrRepetitiveContent = errors.New("excessive repetition detected")
)

// TextValidator checks free text typed by a user before it is stored
type TextValidator struct {
	MaxSize       int
	MaxRepetition int
	AllowNewlines bool
}

// NewTextValidator returns a validator for single-line fields such as names
func NewTextValidator(maxSize int) *TextValidator {
	return &TextValidator{
		MaxSize:       maxSize,
		MaxRepetition: 20,
	}
}

// NewNoteValidator returns a validator for multi-line notes
func NewNoteValidator(maxSize int) *TextValidator {
	return &TextValidator{
		MaxSize:       maxSize,
		MaxRepetition: 100,
		AllowNewlines: true,
	}
}

func (v *TextValidator) Validate(input string) error {
	if v.MaxSize > 0 && len(input) > v.MaxSize {
		return ErrInputTooLarge
	}
	if !utf8.ValidString(input) {
		return ErrInvalidEncoding
	}

	for _, r := range input {
		switch {
		case r == 0:
			return ErrNullByteDetected
		case r == '\n' || r == '\t' || r == '\r':
			if !v.AllowNewlines && r != '\t' {
				return ErrControlCharacter
			}
		case unicode.IsControl(r):
			return ErrControlCharacter
		}
	}

	if v.MaxRepetition > 0 && hasExcessiveRepetition(input, v.MaxRepetition) {
		return ErrRepetitiveContent
	}

	return nil
}

func hasExcessiveRepetition(input string, maxLen int) bool {
	if len(input) <= maxLen {
		return false
	}

	var prev rune
	count := 0
	for i, r := range input {
		if i > 0 && r == prev {
			count++
			if count > maxLen {
				return true
			}
		} else {
			count = 1
		}
		prev = r
	}

	return false
}
