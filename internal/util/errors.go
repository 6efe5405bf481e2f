// Package util provides small shared helpers for the QuickApp Manager.
package util

import (
	"fmt"
	"strings"
)

// WrapErrorf wraps an error with formatted context. A nil error stays nil.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// MultiError collects multiple errors.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new MultiError.
func NewMultiError() *MultiError {
	return &MultiError{}
}

// Add adds an error to the collection.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if there are no errors, or the MultiError itself.
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// Error implements the error interface.
func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return ""
	case 1:
		return m.Errors[0].Error()
	}
	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(m.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the underlying errors for errors.Is/As support.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}
