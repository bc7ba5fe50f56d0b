package model

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrCompletion is returned when the remote completion call fails.
	ErrCompletion = errors.New("completion failed")
)

// FieldError describes a single invalid field of a request.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a task request is not valid. It wraps ErrNotValid.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid task request"
	}

	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+" "+f.Message)
	}

	return "invalid task request: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrNotValid }

// MissingRequired returns true when any of the failures is a missing required field.
func (e *ValidationError) MissingRequired() bool {
	for _, f := range e.Fields {
		if f.Message == msgRequired {
			return true
		}
	}
	return false
}
