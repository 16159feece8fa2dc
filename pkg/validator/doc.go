// Package validator binds rule lists to form fields inside a dom.Document,
// evaluates them on demand or when the form is submitted, reflects the
// verdicts back into the document, and reports an aggregate Outcome to the
// registered success or failure callback.
//
// A Validator is bound to one form. Fields are evaluated in registration
// order and every rule of a field runs, so the concatenated failure message is
// deterministic. All validation work is synchronous; a Validator is meant to
// be driven from a single goroutine.
//
// Missing forms, fields and error containers, as well as unrecognized rules,
// are hard failures: the triggering call returns the error and no callback
// fires.
package validator
