package rules

import (
	"strings"
	"time"
)

// Lookup resolves another field's current value for cross-field rules.
// Implementations return false when the selector does not resolve.
type Lookup interface {
	Lookup(selector string) (string, bool)
}

// LookupFunc adapts a function into a Lookup.
type LookupFunc func(selector string) (string, bool)

// Lookup delegates to the underlying function.
func (fn LookupFunc) Lookup(selector string) (string, bool) {
	return fn(selector)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source used by dateNotFuture.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDateLayouts registers extra layouts tried by dateNotFuture after the
// defaults. Layouts without any clock element compare by calendar day.
func WithDateLayouts(layouts ...string) EngineOption {
	return func(e *Engine) {
		for _, layout := range layouts {
			layout = strings.TrimSpace(layout)
			if layout == "" {
				continue
			}
			e.layouts = append(e.layouts, dateLayout{
				layout:   layout,
				dateOnly: !hasClockElement(layout),
			})
		}
	}
}

// Engine evaluates rules. The zero value is not usable; call NewEngine.
type Engine struct {
	now     func() time.Time
	layouts []dateLayout
}

// NewEngine constructs an Engine with the wall clock and default date layouts.
func NewEngine(options ...EngineOption) *Engine {
	e := &Engine{
		now:     time.Now,
		layouts: append([]dateLayout(nil), defaultDateLayouts...),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Evaluate runs rule against value using the default engine.
func Evaluate(value string, rule Rule, lookup Lookup) (bool, error) {
	return defaultEngine.Evaluate(value, rule, lookup)
}

// Evaluate returns the verdict of rule against value, which callers pass
// already trimmed. An unknown kind yields *UnrecognizedRuleError and an equals
// rule whose target does not resolve yields *FieldNotFoundError.
func (e *Engine) Evaluate(value string, rule Rule, lookup Lookup) (bool, error) {
	switch rule.Kind {
	case KindRequired:
		return checkRequired(value), nil
	case KindMinLength:
		return checkMinLength(value, rule.Param), nil
	case KindMaxLength:
		return checkMaxLength(value, rule.Param), nil
	case KindEmail:
		return checkEmail(value), nil
	case KindHasAtSign:
		return strings.Contains(value, "@"), nil
	case KindHasDot:
		return strings.Contains(value, "."), nil
	case KindLatinOrCyrillic:
		return checkLatinOrCyrillic(value), nil
	case KindPattern:
		return checkPattern(value, rule.Param)
	case KindCustom:
		return checkCustom(value, rule.Param), nil
	case KindPhone:
		return checkPhone(value), nil
	case KindStrongPassword:
		return checkStrongPassword(value), nil
	case KindDateNotFuture:
		return e.checkDateNotFuture(value), nil
	case KindEquals:
		return checkEquals(value, rule.Param, lookup)
	default:
		return false, &UnrecognizedRuleError{Kind: rule.Kind}
	}
}
