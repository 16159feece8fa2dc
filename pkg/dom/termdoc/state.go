package termdoc

import "github.com/goliatone/go-formguard/pkg/dom"

// FieldKind selects the prompt used for a field.
type FieldKind string

const (
	// FieldText prompts for free text.
	FieldText FieldKind = "text"
	// FieldSecret prompts without echoing input.
	FieldSecret FieldKind = "secret"
	// FieldChoice prompts for one of Options.
	FieldChoice FieldKind = "choice"
)

// Field declares one prompt of the session.
type Field struct {
	Name    string
	Label   string
	Help    string
	Kind    FieldKind
	Options []string
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// fieldNode is the dom.Node handed out for fields.
type fieldNode struct {
	def      Field
	value    string
	state    dom.State
	messages []string
}

// slotNode is the dom.Node addressing a field's message slot.
type slotNode struct {
	field *fieldNode
}

// formNode is the dom.Node handed out for the form itself.
type formNode struct {
	name string
}
