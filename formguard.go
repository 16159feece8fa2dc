// Package formguard binds declarative validation rules to form fields and
// reflects the verdicts into a document.
//
// The heavy lifting lives in the sub-packages: pkg/rules evaluates rules,
// pkg/validator orchestrates passes over a pkg/dom.Document, and
// pkg/dom/htmldoc and pkg/dom/termdoc provide concrete documents. This
// package re-exports the common types and offers one-call helpers.
package formguard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/dom/htmldoc"
	"github.com/goliatone/go-formguard/pkg/dom/termdoc"
	"github.com/goliatone/go-formguard/pkg/formconfig"
	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/validator"
)

// Rule aliases rules.Rule.
type Rule = rules.Rule

// Registry aliases rules.Registry for named custom predicates.
type Registry = rules.Registry

// Validator aliases validator.Validator.
type Validator = validator.Validator

// FieldConfig aliases validator.FieldConfig.
type FieldConfig = validator.FieldConfig

// Outcome aliases validator.Outcome.
type Outcome = validator.Outcome

// Form aliases formconfig.Form, the declarative form definition.
type Form = formconfig.Form

// Document aliases dom.Document, the collaborator the validator drives.
type Document = dom.Document

// New binds a validator to the form matching selector in doc.
func New(doc Document, selector string, options ...validator.Option) (*Validator, error) {
	return validator.New(doc, selector, options...)
}

type config struct {
	registry   *rules.Registry
	logger     *slog.Logger
	html       []htmldoc.Option
	terminal   []termdoc.Option
	validators []validator.Option
}

// Option configures the one-call helpers.
type Option func(*config)

// WithRegistry supplies the registry used to resolve custom rules by name.
func WithRegistry(registry *rules.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithLogger injects the logger handed to the document and the validator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTMLOptions forwards options to htmldoc.Parse.
func WithHTMLOptions(options ...htmldoc.Option) Option {
	return func(c *config) {
		c.html = append(c.html, options...)
	}
}

// WithTerminalOptions forwards options to termdoc.New.
func WithTerminalOptions(options ...termdoc.Option) Option {
	return func(c *config) {
		c.terminal = append(c.terminal, options...)
	}
}

// WithValidatorOptions forwards options to validator.New.
func WithValidatorOptions(options ...validator.Option) Option {
	return func(c *config) {
		c.validators = append(c.validators, options...)
	}
}

func newConfig(options []Option) *config {
	cfg := &config{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

func (c *config) validatorOptions() []validator.Option {
	return append([]validator.Option{validator.WithLogger(c.logger)}, c.validators...)
}

// Report is the result of validating a static HTML page.
type Report struct {
	Form    string  `json:"form" yaml:"form"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	// HTML is the page after states and messages were applied.
	HTML string `json:"-" yaml:"-"`
}

// ValidateHTML parses the page, applies form to it and runs one validation
// pass.
func ValidateHTML(page io.Reader, form Form, options ...Option) (Report, error) {
	cfg := newConfig(options)
	doc, err := htmldoc.Parse(page, append([]htmldoc.Option{htmldoc.WithLogger(cfg.logger)}, cfg.html...)...)
	if err != nil {
		return Report{}, err
	}
	v, err := form.NewValidator(doc, cfg.registry, cfg.validatorOptions()...)
	if err != nil {
		return Report{}, err
	}
	outcome, err := v.ValidateAll()
	if err != nil {
		return Report{}, err
	}
	markup, err := doc.HTML()
	if err != nil {
		return Report{}, err
	}
	return Report{Form: form.Name, Outcome: outcome, HTML: markup}, nil
}

// Session is an interactive terminal run of a form definition.
type Session struct {
	Document  *termdoc.Document
	Validator *Validator
}

// NewSession declares a terminal document for form and binds a validator to
// it. Field selectors become the prompt names, so equals rules keep pointing
// at their targets, and every field prints its messages under its own prompt.
func NewSession(form Form, options ...Option) (*Session, error) {
	cfg := newConfig(options)
	bindings, err := form.Build(cfg.registry)
	if err != nil {
		return nil, err
	}

	doc, err := termdoc.New(form.Form, TerminalFields(form),
		append([]termdoc.Option{termdoc.WithLogger(cfg.logger)}, cfg.terminal...)...)
	if err != nil {
		return nil, err
	}
	v, err := validator.New(doc, form.Form, cfg.validatorOptions()...)
	if err != nil {
		return nil, err
	}
	for _, binding := range bindings {
		binding.Config.ErrorContainer = dom.DisplaySelector(binding.Selector)
		if err := v.RegisterField(binding.Selector, binding.Config); err != nil {
			return nil, err
		}
	}
	return &Session{Document: doc, Validator: v}, nil
}

// Run prompts for every field and keeps re-prompting the invalid ones until
// the form passes or attempts run out. A non-positive attempts means one pass.
// Run installs its own success and failure callbacks on the validator.
func (s *Session) Run(ctx context.Context, attempts int) (Outcome, error) {
	var outcome Outcome
	record := func(o Outcome) { outcome = o }
	s.Validator.OnFail(record).OnSuccess(func(validator.SubmitEvent) { outcome = Outcome{Valid: true} })

	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		var err error
		if attempt == 0 {
			err = s.Document.Submit(ctx)
		} else {
			if err = s.Document.CollectInvalid(ctx); err == nil {
				err = s.Document.Resubmit(ctx)
			}
		}
		if err != nil {
			return Outcome{}, err
		}
		if err := s.Validator.LastError(); err != nil {
			return Outcome{}, err
		}
		if outcome.Valid {
			break
		}
	}
	return outcome, nil
}

var nameAttr = regexp.MustCompile(`\[name=["']?([^"'\]]+)["']?\]`)

// TerminalFields derives prompt declarations from a form definition. Labels
// come from the name attribute or id in the selector. Fields carrying a
// strongPassword rule or a name mentioning a password prompt without echo, as
// do fields that must equal such a field.
func TerminalFields(form Form) []termdoc.Field {
	secret := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		if strings.Contains(strings.ToLower(fieldLabel(field.Selector)), "password") {
			secret[field.Selector] = true
		}
		for _, spec := range field.Rules {
			if rules.Kind(spec.Rule) == rules.KindStrongPassword {
				secret[field.Selector] = true
			}
		}
	}
	for _, field := range form.Fields {
		for _, spec := range field.Rules {
			target, ok := spec.Value.(string)
			if ok && rules.Kind(spec.Rule) == rules.KindEquals && secret[strings.TrimSpace(target)] {
				secret[field.Selector] = true
			}
		}
	}

	fields := make([]termdoc.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		kind := termdoc.FieldText
		if secret[field.Selector] {
			kind = termdoc.FieldSecret
		}
		fields = append(fields, termdoc.Field{Name: field.Selector, Label: fieldLabel(field.Selector), Kind: kind})
	}
	return fields
}

func fieldLabel(selector string) string {
	if match := nameAttr.FindStringSubmatch(selector); match != nil {
		return match[1]
	}
	label := strings.TrimLeft(strings.TrimSpace(selector), "#.")
	if label == "" {
		return selector
	}
	return label
}

// LoadForm reads a single form definition, or picks one from the bundled
// forms when path is empty.
func LoadForm(path, name string) (Form, error) {
	if strings.TrimSpace(path) != "" {
		return formconfig.LoadFile(path)
	}
	store, err := DefaultForms()
	if err != nil {
		return Form{}, err
	}
	if name == "" {
		name = "registration"
	}
	form, ok := store.Form(name)
	if !ok {
		return Form{}, fmt.Errorf("formguard: no bundled form %q (have %v)", name, store.Names())
	}
	return form, nil
}
