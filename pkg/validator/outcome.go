package validator

import "time"

// FieldError reports the failed rules of one field. Message joins Messages
// with the validator's separator.
type FieldError struct {
	Field    string   `json:"field" yaml:"field"`
	Message  string   `json:"message" yaml:"message"`
	Messages []string `json:"messages" yaml:"messages"`
}

// Outcome is the aggregate verdict of one validation pass. Errors holds one
// entry per failing field, in registration order; Valid is true iff Errors is
// empty.
type Outcome struct {
	Valid  bool         `json:"isValid" yaml:"isValid"`
	Errors []FieldError `json:"errors" yaml:"errors"`
}

// Has reports whether field failed.
func (o Outcome) Has(field string) bool {
	_, ok := o.Get(field)
	return ok
}

// Get returns the failure entry for field.
func (o Outcome) Get(field string) (FieldError, bool) {
	for _, entry := range o.Errors {
		if entry.Field == field {
			return entry, true
		}
	}
	return FieldError{}, false
}

// Fields lists the failing fields in registration order.
func (o Outcome) Fields() []string {
	if len(o.Errors) == 0 {
		return nil
	}
	out := make([]string, 0, len(o.Errors))
	for _, entry := range o.Errors {
		out = append(out, entry.Field)
	}
	return out
}

// SubmitEvent is the synthetic submit signal handed to the success callback.
type SubmitEvent struct {
	ID   string
	Form string
	At   time.Time
}
