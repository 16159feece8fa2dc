package openapi

import "strings"

const (
	defaultFieldSelector  = `input[name="%s"]`
	defaultErrorContainer = `[data-errors-for="%s"]`
	defaultFormSelector   = `form[data-operation="%s"]`

	// RulesExtension lists extra rules on a property, in formconfig form:
	// [{rule, value, message}].
	RulesExtension = "x-formguard-rules"
)

// Messages holds the fmt templates used for generated rule messages. Each
// template receives the property name first; length templates also receive
// the bound.
type Messages struct {
	Required  string
	MinLength string
	MaxLength string
	Pattern   string
	Email     string
}

// DefaultMessages returns English messages.
func DefaultMessages() Messages {
	return Messages{
		Required:  "%s is required",
		MinLength: "%s must be at least %d characters",
		MaxLength: "%s must be at most %d characters",
		Pattern:   "%s has an invalid format",
		Email:     "%s must be a valid email address",
	}
}

type config struct {
	fieldSelector     string
	errorContainer    string
	formSelector      string
	messages          Messages
	resolveReferences bool
}

// Option configures FormFromOperation.
type Option func(*config)

func newConfig(options []Option) config {
	cfg := config{
		fieldSelector:  defaultFieldSelector,
		errorContainer: defaultErrorContainer,
		formSelector:   defaultFormSelector,
		messages:       DefaultMessages(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithFieldSelector sets the fmt template mapping a property name onto a
// field selector.
func WithFieldSelector(format string) Option {
	return func(c *config) {
		if strings.TrimSpace(format) != "" {
			c.fieldSelector = format
		}
	}
}

// WithErrorContainer sets the fmt template mapping a property name onto its
// error container selector.
func WithErrorContainer(format string) Option {
	return func(c *config) {
		if strings.TrimSpace(format) != "" {
			c.errorContainer = format
		}
	}
}

// WithFormSelector sets the form selector. A template containing %s receives
// the operation id.
func WithFormSelector(selector string) Option {
	return func(c *config) {
		if strings.TrimSpace(selector) != "" {
			c.formSelector = selector
		}
	}
}

// WithMessages overrides generated messages. Empty entries keep the defaults.
func WithMessages(messages Messages) Option {
	return func(c *config) {
		if messages.Required != "" {
			c.messages.Required = messages.Required
		}
		if messages.MinLength != "" {
			c.messages.MinLength = messages.MinLength
		}
		if messages.MaxLength != "" {
			c.messages.MaxLength = messages.MaxLength
		}
		if messages.Pattern != "" {
			c.messages.Pattern = messages.Pattern
		}
		if messages.Email != "" {
			c.messages.Email = messages.Email
		}
	}
}

// WithResolveReferences allows external $ref targets and validates the
// document before conversion.
func WithResolveReferences(enabled bool) Option {
	return func(c *config) {
		c.resolveReferences = enabled
	}
}
