package models

import (
	"errors"
	"strings"
)

var (
	ErrNoRecord          = errors.New("models: no matching record found")
	ErrInvalidID         = errors.New("models: invalid id")
	ErrDuplicateEmail    = errors.New("models: duplicate email")
	ErrInvalidTransition = errors.New("models: invalid status transition")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("models: invalid credentials")
)

// ValidationError reports client input that failed validation. Fields holds
// the offending json field names when they are known.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func invalid(msg string, fields ...string) error {
	return &ValidationError{Message: msg, Fields: fields}
}
