package termdoc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Document is a dom.Document whose values come from terminal prompts.
type Document struct {
	form   *formNode
	driver PromptDriver
	theme  Theme
	logger *slog.Logger

	order   []string
	fields  map[string]*fieldNode
	prefill map[string]string
	submit  func()

	// active is the context of the running Submit, used when printing.
	active context.Context
}

var _ dom.Document = (*Document)(nil)

// New declares a session for the form named form with fields prompted in the
// given order.
func New(form string, fields []Field, options ...Option) (*Document, error) {
	form = strings.TrimSpace(form)
	if form == "" {
		return nil, fmt.Errorf("termdoc: form name is required")
	}

	d := &Document{
		form:    &formNode{name: form},
		theme:   DefaultTheme(),
		logger:  slog.Default(),
		fields:  make(map[string]*fieldNode, len(fields)),
		prefill: make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if d.driver == nil {
		d.driver = NewSurveyDriver(nil)
	}

	for _, def := range fields {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("termdoc: field name is required")
		}
		if name == form {
			return nil, fmt.Errorf("termdoc: field %q collides with the form name", name)
		}
		if _, exists := d.fields[name]; exists {
			return nil, fmt.Errorf("termdoc: duplicate field %q", name)
		}
		def.Name = name
		if def.Kind == "" {
			def.Kind = FieldText
		}
		if def.Kind == FieldChoice && len(def.Options) == 0 {
			return nil, fmt.Errorf("termdoc: choice field %q has no options", name)
		}
		d.order = append(d.order, name)
		d.fields[name] = &fieldNode{def: def, value: d.prefill[name]}
	}
	return d, nil
}

// Resolve returns the form or the field named selector.
func (d *Document) Resolve(selector string) (dom.Node, bool) {
	selector = strings.TrimSpace(selector)
	if selector == d.form.name {
		return d.form, true
	}
	field, ok := d.fields[selector]
	if !ok {
		return nil, false
	}
	return field, true
}

// ReadValue returns the collected value of a field.
func (d *Document) ReadValue(node dom.Node) string {
	field, ok := node.(*fieldNode)
	if !ok {
		return ""
	}
	return field.value
}

// SetState records the field's state.
func (d *Document) SetState(node dom.Node, state dom.State) {
	if field, ok := node.(*fieldNode); ok {
		field.state = state
	}
}

// ResolveDisplay maps a field name, or a node obtained from Resolve, onto
// that field's message slot.
func (d *Document) ResolveDisplay(target dom.DisplayTarget) (dom.Node, bool) {
	node := target.Node
	if node == nil {
		resolved, ok := d.Resolve(target.Selector)
		if !ok {
			return nil, false
		}
		node = resolved
	}
	switch typed := node.(type) {
	case *fieldNode:
		return &slotNode{field: typed}, true
	case *slotNode:
		return typed, true
	default:
		return nil, false
	}
}

// RenderMessages replaces the slot's messages and prints each one.
func (d *Document) RenderMessages(node dom.Node, messages []string) error {
	slot, ok := node.(*slotNode)
	if !ok {
		return ErrForeignNode
	}
	slot.field.messages = append([]string(nil), messages...)

	ctx := d.active
	if ctx == nil {
		ctx = context.Background()
	}
	if len(messages) == 0 {
		if d.theme.ValidPrefix == "" {
			return nil
		}
		return d.driver.Info(ctx, d.theme.ValidPrefix+slot.field.def.label())
	}
	for _, msg := range messages {
		line := fmt.Sprintf("%s%s: %s", d.theme.ErrorPrefix, slot.field.def.label(), msg)
		if err := d.driver.Info(ctx, line); err != nil {
			return fmt.Errorf("termdoc: print message: %w", err)
		}
	}
	return nil
}

// InterceptSubmit records fn as the handler Submit invokes.
func (d *Document) InterceptSubmit(form dom.Node, fn func()) error {
	if form != dom.Node(d.form) {
		return ErrForeignNode
	}
	d.submit = fn
	return nil
}

// Collect prompts for every field in order, offering the current value as the
// default.
func (d *Document) Collect(ctx context.Context) error {
	for _, name := range d.order {
		if err := d.prompt(ctx, d.fields[name]); err != nil {
			return err
		}
	}
	return nil
}

// CollectInvalid prompts again only for fields currently marked invalid.
func (d *Document) CollectInvalid(ctx context.Context) error {
	for _, name := range d.order {
		field := d.fields[name]
		if field.state != dom.StateInvalid {
			continue
		}
		if err := d.prompt(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) prompt(ctx context.Context, field *fieldNode) error {
	def := field.def
	var (
		value string
		err   error
	)
	switch def.Kind {
	case FieldSecret:
		value, err = d.driver.Password(ctx, InputConfig{Message: def.label(), Help: def.Help, Default: field.value})
	case FieldChoice:
		var idx int
		idx, err = d.driver.Select(ctx, SelectConfig{
			Message:      def.label(),
			Options:      def.Options,
			DefaultIndex: indexOf(def.Options, field.value),
			Help:         def.Help,
		})
		if err == nil {
			if idx < 0 || idx >= len(def.Options) {
				return fmt.Errorf("termdoc: field %q: selection %d out of range", def.Name, idx)
			}
			value = def.Options[idx]
		}
	default:
		value, err = d.driver.Input(ctx, InputConfig{Message: def.label(), Help: def.Help, Default: field.value})
	}
	if err != nil {
		return fmt.Errorf("termdoc: field %q: %w", def.Name, err)
	}
	field.value = value
	return nil
}

// Submit collects every field and then runs the submit interceptor.
func (d *Document) Submit(ctx context.Context) error {
	if d.submit == nil {
		return ErrNoSubmitHandler
	}
	if err := d.Collect(ctx); err != nil {
		return err
	}
	return d.Resubmit(ctx)
}

// Resubmit runs the submit interceptor against the values already collected.
func (d *Document) Resubmit(ctx context.Context) error {
	if d.submit == nil {
		return ErrNoSubmitHandler
	}
	d.active = ctx
	defer func() { d.active = nil }()

	d.logger.Debug("form submitted", slog.String("form", d.form.name))
	d.submit()
	return nil
}

// SetValue overrides a field's value without prompting.
func (d *Document) SetValue(name, value string) error {
	field, ok := d.fields[strings.TrimSpace(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	field.value = value
	return nil
}

// Values returns the collected values keyed by field name.
func (d *Document) Values() map[string]string {
	out := make(map[string]string, len(d.fields))
	for name, field := range d.fields {
		out[name] = field.value
	}
	return out
}

// State returns the state last applied to the field, zero when unvalidated.
func (d *Document) State(name string) dom.State {
	if field, ok := d.fields[name]; ok {
		return field.state
	}
	return 0
}

// Messages returns the messages last rendered for the field.
func (d *Document) Messages(name string) []string {
	if field, ok := d.fields[name]; ok {
		return append([]string(nil), field.messages...)
	}
	return nil
}

// Fields lists the declared field names in prompt order.
func (d *Document) Fields() []string {
	return append([]string(nil), d.order...)
}
