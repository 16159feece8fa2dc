package validator

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formguard/pkg/rules"
)

var (
	// ErrFormNotFound signals a form selector that does not resolve.
	ErrFormNotFound = errors.New("validator: form not found")
	// ErrErrorContainerNotFound signals a field whose error container does not
	// resolve.
	ErrErrorContainerNotFound = errors.New("validator: error container not found")
	// ErrFieldNotFound aliases rules.ErrFieldNotFound so registration and
	// cross-field failures match the same sentinel.
	ErrFieldNotFound = rules.ErrFieldNotFound
	// ErrUnrecognizedRule aliases rules.ErrUnrecognizedRule.
	ErrUnrecognizedRule = rules.ErrUnrecognizedRule
	// ErrNoDocument is returned when New receives a nil document.
	ErrNoDocument = errors.New("validator: document is required")
)

// FieldNotFoundError carries the selector that failed to resolve.
type FieldNotFoundError = rules.FieldNotFoundError

// FormNotFoundError carries the form selector that failed to resolve.
type FormNotFoundError struct {
	Selector string
}

func (e *FormNotFoundError) Error() string {
	return fmt.Sprintf("validator: form %q not found", e.Selector)
}

func (e *FormNotFoundError) Unwrap() error { return ErrFormNotFound }

// ErrorContainerNotFoundError names the field whose container is missing and
// the target it was configured with.
type ErrorContainerNotFoundError struct {
	Field  string
	Target string
}

func (e *ErrorContainerNotFoundError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("validator: error container for field %q not configured", e.Field)
	}
	return fmt.Sprintf("validator: error container %q for field %q not found", e.Target, e.Field)
}

func (e *ErrorContainerNotFoundError) Unwrap() error { return ErrErrorContainerNotFound }
