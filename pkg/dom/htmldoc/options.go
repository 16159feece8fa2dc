package htmldoc

import (
	"log/slog"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// TokenValidClass names the theme token holding the valid-state class.
	TokenValidClass = "validation.valid"
	// TokenInvalidClass names the theme token holding the invalid-state class.
	TokenInvalidClass = "validation.invalid"
	// TokenMessageClass names the theme token holding the message class.
	TokenMessageClass = "validation.message"
)

// Classes holds the class names applied to fields and message entries.
type Classes struct {
	Valid   string
	Invalid string
	Message string
}

// DefaultClasses mirrors the Bootstrap validation classes. Message entries
// carry no class by default.
func DefaultClasses() Classes {
	return Classes{
		Valid:   "is-valid",
		Invalid: "is-invalid",
	}
}

func (c Classes) merge(override Classes) Classes {
	if override.Valid != "" {
		c.Valid = override.Valid
	}
	if override.Invalid != "" {
		c.Invalid = override.Invalid
	}
	if override.Message != "" {
		c.Message = override.Message
	}
	return c
}

type config struct {
	classes         Classes
	messageTemplate string
	renderer        Renderer
	policy          *bluemonday.Policy
	logger          *slog.Logger

	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string
}

// Option customises a Document.
type Option func(*config)

// WithClasses overrides the state and message classes. Empty entries keep
// their defaults.
func WithClasses(classes Classes) Option {
	return func(c *config) {
		c.classes = c.classes.merge(classes)
	}
}

// WithMessageTemplate replaces the bundled message template with an inline
// pongo2 template. The template receives `message` and `class` in its
// context.
func WithMessageTemplate(source string) Option {
	return func(c *config) {
		if source != "" {
			c.messageTemplate = source
		}
	}
}

// WithRenderer replaces the go-template engine built by NewRenderer.
func WithRenderer(renderer Renderer) Option {
	return func(c *config) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to rendered messages.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(c *config) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithLogger injects the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTheme resolves class names from the validation.* tokens of the selected
// theme. Tokens override WithClasses; missing tokens keep the current value.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *config) {
		c.themeSelector = selector
		c.themeName = name
		c.themeVariant = variant
	}
}
