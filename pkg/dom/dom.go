// Package dom defines the contract between the validator and the live document
// that owns form fields. Implementations map opaque selectors onto nodes, read
// current values, and reflect validation state back into the document.
package dom

import "strings"

// Node is an opaque handle produced by a Document. Only the Document that
// produced a node knows how to interpret it.
type Node any

// State is the mutually exclusive presentation marker applied to a field.
type State int

const (
	StateValid State = iota + 1
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Document is the live field registry the validator reads from and writes to.
type Document interface {
	// Resolve locates exactly one element by selector.
	Resolve(selector string) (Node, bool)
	// ReadValue returns the node's current raw value. Callers trim it.
	ReadValue(node Node) string
	// SetState applies state and removes the opposite marker.
	SetState(node Node, state State)
	// ResolveDisplay locates the element that shows a field's messages.
	ResolveDisplay(target DisplayTarget) (Node, bool)
	// RenderMessages replaces the node's content with one entry per message,
	// or clears it when messages is empty.
	RenderMessages(node Node, messages []string) error
	// InterceptSubmit suppresses native submission of form and calls fn
	// instead.
	InterceptSubmit(form Node, fn func()) error
}

// DisplayTarget references an error container either by selector or by an
// already resolved node.
type DisplayTarget struct {
	Selector string
	Node     Node
}

// DisplaySelector targets the element matching selector.
func DisplaySelector(selector string) DisplayTarget {
	return DisplayTarget{Selector: strings.TrimSpace(selector)}
}

// DisplayNode targets an element the caller already holds.
func DisplayNode(node Node) DisplayTarget {
	return DisplayTarget{Node: node}
}

// IsZero reports whether the target references nothing.
func (t DisplayTarget) IsZero() bool {
	return t.Node == nil && t.Selector == ""
}

// String describes the target for errors and logs.
func (t DisplayTarget) String() string {
	if t.Selector != "" {
		return t.Selector
	}
	if t.Node != nil {
		return "<node>"
	}
	return ""
}
