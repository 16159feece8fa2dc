package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedRule signals a rule kind outside the supported vocabulary.
	ErrUnrecognizedRule = errors.New("rules: unrecognized rule")
	// ErrFieldNotFound signals a selector that does not resolve to a live field.
	ErrFieldNotFound = errors.New("rules: field not found")
	// ErrInvalidParam signals a parameter whose shape does not match the kind.
	ErrInvalidParam = errors.New("rules: invalid rule parameter")
)

// UnrecognizedRuleError carries the offending rule kind.
type UnrecognizedRuleError struct {
	Kind Kind
}

func (e *UnrecognizedRuleError) Error() string {
	return fmt.Sprintf("rules: unrecognized rule %q", string(e.Kind))
}

func (e *UnrecognizedRuleError) Unwrap() error { return ErrUnrecognizedRule }

// FieldNotFoundError carries the selector that failed to resolve.
type FieldNotFoundError struct {
	Selector string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("rules: field %q not found", e.Selector)
}

func (e *FieldNotFoundError) Unwrap() error { return ErrFieldNotFound }

// ParamError describes a rule whose parameter does not fit its kind.
type ParamError struct {
	Kind   Kind
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("rules: rule %q: %s", string(e.Kind), e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParam }

func paramErrorf(kind Kind, format string, args ...any) error {
	return &ParamError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
