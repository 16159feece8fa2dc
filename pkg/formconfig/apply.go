package formconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/validator"
)

// ErrNoRegistry is returned when a custom rule names a predicate but no
// registry was supplied.
var ErrNoRegistry = errors.New("formconfig: custom rule requires a registry")

// Binding is a field selector paired with its validator configuration.
type Binding struct {
	Selector string
	Config   validator.FieldConfig
}

// Build converts every field into a validator binding, in order. Custom rules
// given a string value are looked up in registry.
func (f Form) Build(registry *rules.Registry) ([]Binding, error) {
	bindings := make([]Binding, 0, len(f.Fields))
	for _, field := range f.Fields {
		list := make([]rules.Rule, 0, len(field.Rules))
		for _, spec := range field.Rules {
			rule, err := buildRule(spec, registry)
			if err != nil {
				return nil, fmt.Errorf("formconfig: form %q field %q: %w", f.Name, field.Selector, err)
			}
			list = append(list, rule)
		}

		var display dom.DisplayTarget
		if field.ErrorContainer != "" {
			display = dom.DisplaySelector(field.ErrorContainer)
		}
		bindings = append(bindings, Binding{
			Selector: field.Selector,
			Config:   validator.FieldConfig{Rules: list, ErrorContainer: display},
		})
	}
	return bindings, nil
}

// Apply registers every field of the form on v in declaration order.
func (f Form) Apply(v *validator.Validator, registry *rules.Registry) error {
	bindings, err := f.Build(registry)
	if err != nil {
		return err
	}
	for _, binding := range bindings {
		if err := v.RegisterField(binding.Selector, binding.Config); err != nil {
			return err
		}
	}
	return nil
}

// NewValidator binds a validator to the form inside doc and applies the
// field definitions.
func (f Form) NewValidator(doc dom.Document, registry *rules.Registry, options ...validator.Option) (*validator.Validator, error) {
	v, err := validator.New(doc, f.Form, options...)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(v, registry); err != nil {
		return nil, err
	}
	return v, nil
}

func buildRule(spec RuleSpec, registry *rules.Registry) (rules.Rule, error) {
	if rules.Kind(spec.Rule) == rules.KindCustom {
		if name, ok := spec.Value.(string); ok {
			name = strings.TrimSpace(name)
			if registry == nil {
				return rules.Rule{}, fmt.Errorf("%w: %q", ErrNoRegistry, name)
			}
			return registry.Rule(name, spec.Message)
		}
	}
	return rules.New(spec.Rule, spec.Value, spec.Message)
}
