package validator

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formguard/pkg/rules"
)

const defaultMessageSeparator = ", "

// Option customises a Validator.
type Option func(*Validator)

// WithLogger injects the structured logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithEngine injects the rule engine, for example one with a fixed clock.
func WithEngine(engine *rules.Engine) Option {
	return func(v *Validator) {
		if engine != nil {
			v.engine = engine
		}
	}
}

// WithObserver registers an Observer notified on every pass.
func WithObserver(observer Observer) Option {
	return func(v *Validator) {
		if observer != nil {
			v.observer = observer
		}
	}
}

// WithMessageSeparator overrides the separator used to join a field's failure
// messages in FieldError.Message.
func WithMessageSeparator(sep string) Option {
	return func(v *Validator) {
		v.separator = sep
	}
}

// WithClock overrides the time source stamped on SubmitEvent.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithIDGenerator overrides how SubmitEvent IDs are produced.
func WithIDGenerator(next func() string) Option {
	return func(v *Validator) {
		if next != nil {
			v.nextID = next
		}
	}
}
