// Package validation checks user input. Every error it returns matches
// ErrInvalid with errors.Is.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalid = errors.New("invalid input")

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func Invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Required checks that a trimmed value is present and at most max runes long.
func Required(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Invalid(field, "%s is required", field)
	}
	return MaxLength(field, trimmed, max)
}

func MaxLength(field, value string, max int) error {
	if max > 0 && utf8.RuneCountInString(value) > max {
		return Invalid(field, "%s is too long (max %d characters)", field, max)
	}
	return nil
}

// Rating accepts 1 to 5 stars.
func Rating(n int) error {
	if n < 1 || n > 5 {
		return Invalid("rating", "rating must be between 1 and 5")
	}
	return nil
}

// URL accepts empty values or absolute http(s) links.
func URL(field, value string) error {
	if value == "" {
		return nil
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return Invalid(field, "%s must start with http:// or https://", field)
	}
	return MaxLength(field, value, 500)
}
