package htmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formguard/pkg/dom"
)

var (
	// ErrElementNotFound is returned by helpers whose selector does not resolve.
	ErrElementNotFound = errors.New("htmldoc: element not found")
	// ErrForeignNode is returned when a node was not produced by this document.
	ErrForeignNode = errors.New("htmldoc: node does not belong to this document")
	// ErrNoSubmitHandler is returned by Submit for forms nobody intercepted.
	ErrNoSubmitHandler = errors.New("htmldoc: form has no submit handler")
)

// Document is a dom.Document backed by a goquery tree. It is not safe for
// concurrent use.
type Document struct {
	doc      *goquery.Document
	classes  Classes
	message  messageRenderer
	policy   *bluemonday.Policy
	logger   *slog.Logger
	handlers map[*html.Node]func()
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML page from r.
func Parse(r io.Reader, options ...Option) (*Document, error) {
	cfg := &config{
		classes: DefaultClasses(),
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.themeSelector != nil {
		classes, err := classesFromTheme(cfg)
		if err != nil {
			return nil, err
		}
		cfg.classes = classes
	}

	if cfg.messageTemplate != "" {
		if _, err := pongo2.FromString(cfg.messageTemplate); err != nil {
			return nil, fmt.Errorf("htmldoc: compile message template: %w", err)
		}
	}
	renderer := cfg.renderer
	if renderer == nil {
		var err error
		if renderer, err = NewRenderer(); err != nil {
			return nil, err
		}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse html: %w", err)
	}

	policy := cfg.policy
	if policy == nil {
		policy = MessagePolicy()
	}

	return &Document{
		doc:      doc,
		classes:  cfg.classes,
		message:  messageRenderer{engine: renderer, inline: cfg.messageTemplate},
		policy:   policy,
		logger:   cfg.logger,
		handlers: make(map[*html.Node]func()),
	}, nil
}

// ParseString is Parse over an in-memory page.
func ParseString(markup string, options ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), options...)
}

func classesFromTheme(cfg *config) (Classes, error) {
	selection, err := cfg.themeSelector.Select(cfg.themeName, cfg.themeVariant)
	if err != nil {
		return Classes{}, fmt.Errorf("htmldoc: select theme %q: %w", cfg.themeName, err)
	}
	if selection == nil || selection.Manifest == nil {
		return cfg.classes, nil
	}
	tokens := selection.Manifest.Tokens
	return cfg.classes.merge(Classes{
		Valid:   strings.TrimSpace(tokens[TokenValidClass]),
		Invalid: strings.TrimSpace(tokens[TokenInvalidClass]),
		Message: strings.TrimSpace(tokens[TokenMessageClass]),
	}), nil
}

// Classes returns the class names in effect.
func (d *Document) Classes() Classes {
	return d.classes
}

// Resolve returns the first element matching selector.
func (d *Document) Resolve(selector string) (dom.Node, bool) {
	sel := d.find(selector)
	if sel == nil {
		return nil, false
	}
	return sel, true
}

func (d *Document) find(selector string) *goquery.Selection {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.First()
}

// ReadValue returns the current value of an input, textarea or select, and
// the text content of anything else.
func (d *Document) ReadValue(node dom.Node) string {
	sel, ok := node.(*goquery.Selection)
	if !ok || sel.Length() == 0 {
		return ""
	}

	switch goquery.NodeName(sel) {
	case "input":
		switch strings.ToLower(sel.AttrOr("type", "text")) {
		case "checkbox", "radio":
			if _, checked := sel.Attr("checked"); !checked {
				return ""
			}
			return sel.AttrOr("value", "on")
		}
		return sel.AttrOr("value", "")
	case "textarea":
		return sel.Text()
	case "select":
		option := sel.Find("option[selected]").First()
		if option.Length() == 0 {
			option = sel.Find("option").First()
		}
		if option.Length() == 0 {
			return ""
		}
		if value, ok := option.Attr("value"); ok {
			return value
		}
		return option.Text()
	default:
		return sel.Text()
	}
}

// SetState adds the class for state and removes the opposite one.
func (d *Document) SetState(node dom.Node, state dom.State) {
	sel, ok := node.(*goquery.Selection)
	if !ok {
		return
	}
	switch state {
	case dom.StateValid:
		sel.RemoveClass(d.classes.Invalid).AddClass(d.classes.Valid)
	case dom.StateInvalid:
		sel.RemoveClass(d.classes.Valid).AddClass(d.classes.Invalid)
	}
}

// ResolveDisplay accepts a selection held by the caller or resolves the
// target's selector.
func (d *Document) ResolveDisplay(target dom.DisplayTarget) (dom.Node, bool) {
	if target.Node != nil {
		sel, ok := target.Node.(*goquery.Selection)
		if !ok || sel.Length() == 0 {
			return nil, false
		}
		return sel, true
	}
	return d.Resolve(target.Selector)
}

// RenderMessages replaces the node's content with one rendered entry per
// message. Message text is escaped by the template and the result sanitised.
func (d *Document) RenderMessages(node dom.Node, messages []string) error {
	sel, ok := node.(*goquery.Selection)
	if !ok {
		return ErrForeignNode
	}
	if len(messages) == 0 {
		sel.Empty()
		return nil
	}

	var buf bytes.Buffer
	for _, message := range messages {
		if err := d.message.render(message, d.classes.Message, &buf); err != nil {
			return fmt.Errorf("htmldoc: render message: %w", err)
		}
	}
	sel.SetHtml(sanitizeMarkup(d.policy, buf.String()))
	return nil
}

// InterceptSubmit records fn as the handler Submit invokes for form.
func (d *Document) InterceptSubmit(form dom.Node, fn func()) error {
	sel, ok := form.(*goquery.Selection)
	if !ok || sel.Length() == 0 {
		return ErrForeignNode
	}
	d.handlers[sel.Get(0)] = fn
	d.logger.Debug("submit intercepted", slog.String("form", describe(sel)))
	return nil
}

// Submit simulates submitting the form matching selector. Native submission
// never happens; the intercepting handler runs instead.
func (d *Document) Submit(selector string) error {
	sel := d.find(selector)
	if sel == nil {
		return fmt.Errorf("%w: %q", ErrElementNotFound, selector)
	}
	fn, ok := d.handlers[sel.Get(0)]
	if !ok || fn == nil {
		return fmt.Errorf("%w: %q", ErrNoSubmitHandler, selector)
	}
	fn()
	return nil
}

// SetValue updates the value of the element matching selector the way a user
// would: the value attribute of inputs, the text of textareas, and the
// selected option of selects.
func (d *Document) SetValue(selector, value string) error {
	sel := d.find(selector)
	if sel == nil {
		return fmt.Errorf("%w: %q", ErrElementNotFound, selector)
	}

	switch goquery.NodeName(sel) {
	case "textarea":
		sel.SetText(value)
	case "select":
		options := sel.Find("option")
		options.RemoveAttr("selected")
		found := false
		options.EachWithBreak(func(_ int, option *goquery.Selection) bool {
			if option.AttrOr("value", option.Text()) == value {
				option.SetAttr("selected", "selected")
				found = true
				return false
			}
			return true
		})
		if !found {
			return fmt.Errorf("htmldoc: select %q has no option %q", selector, value)
		}
	case "input":
		switch strings.ToLower(sel.AttrOr("type", "text")) {
		case "checkbox", "radio":
			if value == "" {
				sel.RemoveAttr("checked")
			} else {
				sel.SetAttr("checked", "checked")
			}
			return nil
		}
		sel.SetAttr("value", value)
	default:
		sel.SetText(value)
	}
	return nil
}

// HTML serialises the current document.
func (d *Document) HTML() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("htmldoc: serialise: %w", err)
	}
	return out, nil
}

// Find exposes the underlying goquery selection for inspection.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

func describe(sel *goquery.Selection) string {
	name := goquery.NodeName(sel)
	if id, ok := sel.Attr("id"); ok && id != "" {
		return name + "#" + id
	}
	return name
}
