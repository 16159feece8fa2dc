package termdoc

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("termdoc: aborted")
	// ErrNoSubmitHandler is returned by Submit when nothing intercepted the form.
	ErrNoSubmitHandler = errors.New("termdoc: form has no submit handler")
	// ErrUnknownField is returned by helpers addressing an undeclared field.
	ErrUnknownField = errors.New("termdoc: unknown field")
	// ErrForeignNode is returned when a node was not produced by this document.
	ErrForeignNode = errors.New("termdoc: node does not belong to this document")
)
