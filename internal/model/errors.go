package model

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by stores when no account matches a filter.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by stores on an email uniqueness violation.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidationError enumerates field-level constraint violations.
type ValidationError struct {
	Fields []FieldError
}

// Add appends a field violation.
func (e *ValidationError) Add(key, message string) {
	e.Fields = append(e.Fields, FieldError{Key: key, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Key+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
