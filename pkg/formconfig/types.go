package formconfig

// Form is one declarative form definition.
type Form struct {
	// Name identifies the form inside a Store. Defaults to the form selector.
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Form   string  `json:"form" yaml:"form"`
	Fields []Field `json:"fields" yaml:"fields"`
	// Source records the file the form was loaded from.
	Source string `json:"-" yaml:"-"`
}

// Field binds rules to one field selector.
type Field struct {
	Selector       string     `json:"selector" yaml:"selector"`
	ErrorContainer string     `json:"errorContainer" yaml:"errorContainer"`
	Rules          []RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// RuleSpec is the loosely typed form of a rules.Rule. Value carries the
// parameter: a length, a pattern source, a target selector, or the name of a
// registered custom predicate.
type RuleSpec struct {
	Rule    string `json:"rule" yaml:"rule"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message" yaml:"message"`
}
