package application

import (
	"fmt"
	"strings"
	"time"

	"workjournal/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "weekEnding" -> "week ending")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"date":       "date",
		"weekEnding": "week ending",
		"basePath":   "base path",
		"content":    "content",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ParseDateArg turns a user-supplied date into a calendar date. It accepts
// YYYY-MM-DD or the words today, yesterday and tomorrow; an empty value means
// today. Relative words are evaluated at now in the work week's timezone.
func ParseDateArg(fieldName, value string, cfg domain.WorkWeekConfig, now time.Time) (domain.Date, error) {
	today := domain.LocalDate(now, cfg)

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}

	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%w: %w", ErrInvalidDate, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be YYYY-MM-DD, got %q", formatFieldName(fieldName), value),
		})
	}
	return d, nil
}

// ValidateDate checks that value is a strict YYYY-MM-DD date
func ValidateDate(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if _, err := domain.ParseDate(value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be YYYY-MM-DD, got %q", formatFieldName(fieldName), value),
		})
	}
	return nil
}
