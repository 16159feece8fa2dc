package validator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
)

// FieldConfig describes the rules bound to a field and where its messages
// are displayed.
type FieldConfig struct {
	Rules          []rules.Rule
	ErrorContainer dom.DisplayTarget
}

type fieldSpec struct {
	selector string
	rules    []rules.Rule
	display  dom.DisplayTarget
}

// Validator orchestrates validation passes for a single form.
type Validator struct {
	doc      dom.Document
	form     string
	formNode dom.Node

	order  []string
	fields map[string]fieldSpec

	onSuccess func(SubmitEvent)
	onFail    func(Outcome)

	engine    *rules.Engine
	logger    *slog.Logger
	observer  Observer
	separator string
	now       func() time.Time
	nextID    func() string

	err     error
	lastErr error
}

// New binds a Validator to the form matching selector and routes the form's
// submissions through ValidateAll.
func New(doc dom.Document, selector string, options ...Option) (*Validator, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	v := &Validator{
		doc:       doc,
		form:      strings.TrimSpace(selector),
		fields:    make(map[string]fieldSpec),
		engine:    rules.NewEngine(),
		logger:    slog.Default(),
		observer:  noopObserver{},
		separator: defaultMessageSeparator,
		now:       time.Now,
		nextID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}

	node, ok := doc.Resolve(v.form)
	if !ok {
		return nil, &FormNotFoundError{Selector: v.form}
	}
	v.formNode = node

	if err := doc.InterceptSubmit(node, v.handleSubmit); err != nil {
		return nil, fmt.Errorf("validator: intercept submit for %q: %w", v.form, err)
	}
	return v, nil
}

// Form returns the selector the validator is bound to.
func (v *Validator) Form() string {
	return v.form
}

// RegisterField binds cfg to the field matching selector. Registering the same
// selector again replaces its rules and container but keeps its position.
func (v *Validator) RegisterField(selector string, cfg FieldConfig) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return errors.New("validator: field selector is required")
	}
	if _, ok := v.doc.Resolve(selector); !ok {
		return &FieldNotFoundError{Selector: selector}
	}
	for idx, rule := range cfg.Rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("validator: field %q rule %d: %w", selector, idx, err)
		}
	}

	spec := fieldSpec{
		selector: selector,
		rules:    append([]rules.Rule(nil), cfg.Rules...),
		display:  cfg.ErrorContainer,
	}
	if _, exists := v.fields[selector]; !exists {
		v.order = append(v.order, selector)
	}
	v.fields[selector] = spec

	v.logger.Info("field registered",
		slog.String("form", v.form),
		slog.String("field", selector),
		slog.Int("rules", len(spec.rules)),
	)
	return nil
}

// Field is the chaining form of RegisterField. The first registration error is
// kept, later Field calls become no-ops, and the error is reported by Err and
// by ValidateAll.
func (v *Validator) Field(selector string, cfg FieldConfig) *Validator {
	if v.err != nil {
		return v
	}
	if err := v.RegisterField(selector, cfg); err != nil {
		v.err = err
	}
	return v
}

// Err returns the first error recorded by Field.
func (v *Validator) Err() error {
	return v.err
}

// OnSuccess replaces the success callback.
func (v *Validator) OnSuccess(fn func(SubmitEvent)) *Validator {
	v.onSuccess = fn
	return v
}

// OnFail replaces the failure callback.
func (v *Validator) OnFail(fn func(Outcome)) *Validator {
	v.onFail = fn
	return v
}

// Fields returns the registered selectors in registration order.
func (v *Validator) Fields() []string {
	return append([]string(nil), v.order...)
}

// LastError returns the error of the most recent submit-triggered pass, which
// has no caller to return it to.
func (v *Validator) LastError() error {
	return v.lastErr
}

// ValidateAll evaluates every registered field, updates the document, and
// invokes the success or failure callback. Errors abort the pass before any
// callback runs.
func (v *Validator) ValidateAll() (Outcome, error) {
	if v.err != nil {
		return Outcome{}, v.err
	}

	start := time.Now()
	outcome := Outcome{Valid: true}
	lookup := v.lookup()
	observed := make([][]rules.Rule, 0, len(v.order))

	for _, selector := range v.order {
		messages, failed, err := v.validateField(v.fields[selector], lookup)
		if err != nil {
			return Outcome{}, err
		}
		observed = append(observed, failed)
		if len(messages) == 0 {
			continue
		}
		outcome.Valid = false
		outcome.Errors = append(outcome.Errors, FieldError{
			Field:    selector,
			Message:  strings.Join(messages, v.separator),
			Messages: messages,
		})
	}

	// Observations are only reported for passes that ran to completion.
	for idx, selector := range v.order {
		v.observer.ObserveField(selector, observed[idx])
	}
	v.observer.ObservePass(outcome, time.Since(start))
	v.logger.Debug("validation finished",
		slog.String("form", v.form),
		slog.Bool("valid", outcome.Valid),
		slog.Int("failed_fields", len(outcome.Errors)),
	)

	if outcome.Valid {
		if v.onSuccess != nil {
			v.onSuccess(SubmitEvent{ID: v.nextID(), Form: v.form, At: v.now()})
		}
	} else if v.onFail != nil {
		v.onFail(outcome)
	}
	return outcome, nil
}

func (v *Validator) validateField(spec fieldSpec, lookup rules.Lookup) ([]string, []rules.Rule, error) {
	node, ok := v.doc.Resolve(spec.selector)
	if !ok {
		return nil, nil, &FieldNotFoundError{Selector: spec.selector}
	}
	value := strings.TrimSpace(v.doc.ReadValue(node))

	var (
		messages []string
		failed   []rules.Rule
	)
	for _, rule := range spec.rules {
		ok, err := v.engine.Evaluate(value, rule, lookup)
		if err != nil {
			return nil, nil, fmt.Errorf("validator: field %q: %w", spec.selector, err)
		}
		if !ok {
			messages = append(messages, rule.Message)
			failed = append(failed, rule)
		}
	}

	if len(messages) == 0 {
		v.doc.SetState(node, dom.StateValid)
	} else {
		v.doc.SetState(node, dom.StateInvalid)
	}

	display, ok := v.resolveDisplay(spec.display)
	if !ok {
		return nil, nil, &ErrorContainerNotFoundError{Field: spec.selector, Target: spec.display.String()}
	}
	if err := v.doc.RenderMessages(display, messages); err != nil {
		return nil, nil, fmt.Errorf("validator: render messages for %q: %w", spec.selector, err)
	}
	return messages, failed, nil
}

func (v *Validator) resolveDisplay(target dom.DisplayTarget) (dom.Node, bool) {
	if target.IsZero() {
		return nil, false
	}
	return v.doc.ResolveDisplay(target)
}

func (v *Validator) lookup() rules.Lookup {
	return rules.LookupFunc(func(selector string) (string, bool) {
		node, ok := v.doc.Resolve(selector)
		if !ok {
			return "", false
		}
		return v.doc.ReadValue(node), true
	})
}

func (v *Validator) handleSubmit() {
	_, err := v.ValidateAll()
	v.lastErr = err
	if err != nil {
		v.logger.Error("submit validation failed",
			slog.String("form", v.form),
			slog.Any("error", err),
		)
	}
}
