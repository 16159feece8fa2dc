package termdoc

import "log/slog"

// Theme captures the prefixes used when printing messages.
type Theme struct {
	ErrorPrefix string
	ValidPrefix string
}

// DefaultTheme prints failures with a cross and leaves valid fields silent.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "✗ "}
}

// Option configures a Document.
type Option func(*Document)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(d *Document) {
		if driver != nil {
			d.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(d *Document) {
		d.theme = theme
	}
}

// WithLogger injects the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithValues prefills field values, used as prompt defaults.
func WithValues(values map[string]string) Option {
	return func(d *Document) {
		for name, value := range values {
			d.prefill[name] = value
		}
	}
}
