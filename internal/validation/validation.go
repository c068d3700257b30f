package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLen is the maximum title length in runes, measured after trimming.
const MaxTitleLen = 200

// ValidationError describes rejected input: which field broke which rule.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NormalizeTitle trims surrounding whitespace and enforces the title rules.
// Returns the normalized title or a *ValidationError.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &ValidationError{
			Field:   "title",
			Rule:    "required",
			Message: "title must not be empty",
		}
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", &ValidationError{
			Field:   "title",
			Rule:    "max_length",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLen),
		}
	}
	return title, nil
}

// ValidateUpdate checks a partial update: at least one field must be present
// and a supplied title must pass the title rules. Returns the normalized
// title, or nil when the title is not part of the update.
func ValidateUpdate(title *string, completed *bool) (*string, error) {
	if title == nil && completed == nil {
		return nil, &ValidationError{
			Field:   "body",
			Rule:    "empty_update",
			Message: "at least one of title or completed must be provided",
		}
	}
	if title == nil {
		return nil, nil
	}
	normalized, err := NormalizeTitle(*title)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}
