// Package domain defines core types, interfaces, and errors for the reporting client.
package domain

import (
	"fmt"
	"strings"
)

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExecutorError indicates a failure of the injected query executor: transport,
// authentication, quota, or cancellation. Rows fetched before the failure are
// discarded.
type ExecutorError struct {
	// StartIndex is the 1-based start index of the page being fetched.
	StartIndex int
	Err        error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("execute query (start-index %d): %v", e.StartIndex, e.Err)
}

func (e *ExecutorError) Unwrap() error { return e.Err }

// MalformedResponseError indicates a page missing the fields needed to proceed.
type MalformedResponseError struct {
	Missing []string
	Message string
}

func (e *MalformedResponseError) Error() string {
	if len(e.Missing) == 0 {
		return "malformed response: " + e.Message
	}
	msg := "malformed response: missing " + strings.Join(e.Missing, ", ")
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// CoercionError indicates a cell that does not parse to its declared semantic type.
type CoercionError struct {
	Column string
	Row    int
	Value  any
	Type   string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coerce column %q row %d: value %v is not a valid %s: %v", e.Column, e.Row, e.Value, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrMalformedResponse creates a MalformedResponseError for the given missing fields.
func ErrMalformedResponse(missing ...string) *MalformedResponseError {
	return &MalformedResponseError{Missing: missing}
}
