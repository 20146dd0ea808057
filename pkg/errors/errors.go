package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when validation fails. Violations keeps every
// failed check so callers can show them all at once.
type ErrValidation struct {
	Message    string
	Fields     map[string]string
	Violations []string
}

func (e *ErrValidation) Error() string {
	if len(e.Violations) > 0 {
		msg := e.Message
		if msg == "" {
			msg = "validation failed"
		}
		return fmt.Sprintf("%s: %s", msg, strings.Join(e.Violations, ", "))
	}
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}
