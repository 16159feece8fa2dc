package rules

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a rule in the supported vocabulary.
type Kind string

const (
	KindRequired        Kind = "required"
	KindMinLength       Kind = "minLength"
	KindMaxLength       Kind = "maxLength"
	KindEmail           Kind = "email"
	KindHasAtSign       Kind = "hasAtSign"
	KindHasDot          Kind = "hasDot"
	KindLatinOrCyrillic Kind = "latinOrCyrillic"
	KindPattern         Kind = "pattern"
	KindCustom          Kind = "custom"
	KindPhone           Kind = "phone"
	KindStrongPassword  Kind = "strongPassword"
	KindDateNotFuture   Kind = "dateNotFuture"
	KindEquals          Kind = "equals"
)

// Kinds lists the supported vocabulary in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindRequired, KindMinLength, KindMaxLength, KindEmail, KindHasAtSign,
		KindHasDot, KindLatinOrCyrillic, KindPattern, KindCustom, KindPhone,
		KindStrongPassword, KindDateNotFuture, KindEquals,
	}
}

// Known reports whether k belongs to the supported vocabulary.
func (k Kind) Known() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Param is the tagged union of rule parameters. The concrete variants are
// Length, Pattern, Predicate and FieldRef; parameterless kinds carry nil.
type Param interface {
	param()
}

// Length bounds minLength/maxLength, counted in runes.
type Length int

func (Length) param() {}

// Pattern holds a compiled regular expression together with its source.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

func (Pattern) param() {}

// CompilePattern compiles source into a Pattern parameter.
func CompilePattern(source string) (Pattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return Pattern{}, paramErrorf(KindPattern, "compile %q: %v", source, err)
	}
	return Pattern{source: source, re: re}, nil
}

// Source returns the expression the pattern was compiled from.
func (p Pattern) Source() string { return p.source }

// Predicate backs the custom kind.
type Predicate func(value string) bool

func (Predicate) param() {}

// FieldRef names the field an equals rule compares against.
type FieldRef string

func (FieldRef) param() {}

// Rule is a named, parameterised predicate plus the message surfaced when it
// fails. Treat rules as immutable once handed to a validator.
type Rule struct {
	Kind    Kind
	Param   Param
	Message string
}

// Validate checks that the parameter shape matches the kind. Kinds outside the
// vocabulary pass; the engine rejects them at evaluation time.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindRequired, KindEmail, KindHasAtSign, KindHasDot, KindLatinOrCyrillic,
		KindPhone, KindStrongPassword, KindDateNotFuture:
		if r.Param != nil {
			return paramErrorf(r.Kind, "takes no parameter, got %T", r.Param)
		}
	case KindMinLength, KindMaxLength:
		switch p := r.Param.(type) {
		case nil:
		case Length:
			if p < 0 {
				return paramErrorf(r.Kind, "length must not be negative, got %d", int(p))
			}
		default:
			return paramErrorf(r.Kind, "expects a length, got %T", r.Param)
		}
	case KindPattern:
		p, ok := r.Param.(Pattern)
		if !ok {
			return paramErrorf(r.Kind, "expects a pattern, got %T", r.Param)
		}
		if p.re == nil {
			return paramErrorf(r.Kind, "pattern is not compiled")
		}
	case KindCustom:
		switch r.Param.(type) {
		case nil, Predicate:
		default:
			return paramErrorf(r.Kind, "expects a predicate, got %T", r.Param)
		}
	case KindEquals:
		ref, ok := r.Param.(FieldRef)
		if !ok {
			return paramErrorf(r.Kind, "expects a field reference, got %T", r.Param)
		}
		if strings.TrimSpace(string(ref)) == "" {
			return paramErrorf(r.Kind, "field reference is empty")
		}
	}
	return nil
}

// Required fails on an empty value.
func Required(message string) Rule {
	return Rule{Kind: KindRequired, Message: message}
}

// MinLength fails when the value has fewer than n runes.
func MinLength(n int, message string) Rule {
	return Rule{Kind: KindMinLength, Param: Length(n), Message: message}
}

// MaxLength fails when the value has more than n runes.
func MaxLength(n int, message string) Rule {
	return Rule{Kind: KindMaxLength, Param: Length(n), Message: message}
}

// Email checks the value against the email pattern.
func Email(message string) Rule {
	return Rule{Kind: KindEmail, Message: message}
}

// HasAtSign fails when the value contains no "@".
func HasAtSign(message string) Rule {
	return Rule{Kind: KindHasAtSign, Message: message}
}

// HasDot fails when the value contains no ".".
func HasDot(message string) Rule {
	return Rule{Kind: KindHasDot, Message: message}
}

// LatinOrCyrillic allows Latin and Russian Cyrillic letters and whitespace
// only.
func LatinOrCyrillic(message string) Rule {
	return Rule{Kind: KindLatinOrCyrillic, Message: message}
}

// Phone checks the value against the phone number pattern.
func Phone(message string) Rule {
	return Rule{Kind: KindPhone, Message: message}
}

// StrongPassword requires at least 8 runes including an ASCII lower case
// letter, an upper case letter and a digit.
func StrongPassword(message string) Rule {
	return Rule{Kind: KindStrongPassword, Message: message}
}

// DateNotFuture fails on dates after the engine clock and on values that
// match no known layout.
func DateNotFuture(message string) Rule {
	return Rule{Kind: KindDateNotFuture, Message: message}
}

// MatchPattern compiles expr and returns a pattern rule.
func MatchPattern(expr, message string) (Rule, error) {
	p, err := CompilePattern(expr)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Kind: KindPattern, Param: p, Message: message}, nil
}

// MustMatchPattern panics when expr does not compile. Useful for package-level
// rule tables.
func MustMatchPattern(expr, message string) Rule {
	rule, err := MatchPattern(expr, message)
	if err != nil {
		panic(err)
	}
	return rule
}

// Custom wraps fn as a predicate rule. A nil fn yields a rule that fails
// Validate.
func Custom(fn func(string) bool, message string) Rule {
	var p Param
	if fn != nil {
		p = Predicate(fn)
	}
	return Rule{Kind: KindCustom, Param: p, Message: message}
}

// Equals compares the field against the current value of target.
func Equals(target, message string) Rule {
	return Rule{Kind: KindEquals, Param: FieldRef(target), Message: message}
}

// New builds a rule from loosely typed input such as decoded YAML or JSON.
// Numbers may arrive as ints, integral floats or numeric strings; patterns as
// strings or compiled expressions; predicates as func(string) bool. A value
// that does not fit the kind yields an ErrInvalidParam error. Unknown kinds
// are returned unchecked.
func New(kind string, value any, message string) (Rule, error) {
	k := Kind(strings.TrimSpace(kind))
	rule := Rule{Kind: k, Message: message}

	switch k {
	case KindMinLength, KindMaxLength:
		if value == nil {
			return rule, nil
		}
		n, err := toLength(k, value)
		if err != nil {
			return Rule{}, err
		}
		rule.Param = Length(n)
	case KindPattern:
		switch v := value.(type) {
		case string:
			p, err := CompilePattern(v)
			if err != nil {
				return Rule{}, err
			}
			rule.Param = p
		case *regexp.Regexp:
			if v == nil {
				return Rule{}, paramErrorf(k, "pattern is nil")
			}
			rule.Param = Pattern{source: v.String(), re: v}
		case Pattern:
			rule.Param = v
		default:
			return Rule{}, paramErrorf(k, "expects a pattern string, got %T", value)
		}
	case KindCustom:
		switch v := value.(type) {
		case nil:
		case Predicate:
			rule.Param = v
		case func(string) bool:
			rule.Param = Predicate(v)
		default:
			return Rule{}, paramErrorf(k, "expects a predicate, got %T", value)
		}
	case KindEquals:
		switch v := value.(type) {
		case string:
			rule.Param = FieldRef(v)
		case FieldRef:
			rule.Param = v
		default:
			return Rule{}, paramErrorf(k, "expects a field selector, got %T", value)
		}
	default:
		if k.Known() && value != nil {
			return Rule{}, paramErrorf(k, "takes no parameter, got %T", value)
		}
	}

	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// maxLengthParam bounds length parameters so they fit an int on every
// platform.
const maxLengthParam = math.MaxInt32

func toLength(kind Kind, value any) (int, error) {
	var n int64
	switch v := value.(type) {
	case Length:
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > maxLengthParam {
			return 0, paramErrorf(kind, "length %d out of range", v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, paramErrorf(kind, "length must be an integer, got %v", v)
		}
		if v > maxLengthParam || v < -maxLengthParam {
			return 0, paramErrorf(kind, "length %v out of range", v)
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, paramErrorf(kind, "length %q is not an integer", v)
		}
		n = parsed
	default:
		return 0, paramErrorf(kind, "expects a length, got %T", value)
	}
	if n > maxLengthParam || n < -maxLengthParam {
		return 0, paramErrorf(kind, "length %d out of range", n)
	}
	return int(n), nil
}

// String renders the rule for logs.
func (r Rule) String() string {
	switch p := r.Param.(type) {
	case nil:
		return string(r.Kind)
	case Length:
		return fmt.Sprintf("%s(%d)", r.Kind, int(p))
	case Pattern:
		return fmt.Sprintf("%s(%q)", r.Kind, p.source)
	case FieldRef:
		return fmt.Sprintf("%s(%q)", r.Kind, string(p))
	case Predicate:
		return fmt.Sprintf("%s(func)", r.Kind)
	default:
		return string(r.Kind)
	}
}
