package rules

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPhoneDigits = 10

func checkEmail(value string) bool {
	return emailRegex.MatchString(value)
}

func checkPattern(value string, param Param) (bool, error) {
	p, ok := param.(Pattern)
	if !ok || p.re == nil {
		return false, paramErrorf(KindPattern, "expects a compiled pattern, got %T", param)
	}
	return p.re.MatchString(value), nil
}

// checkPhone strips formatting characters (whitespace, parentheses, dashes,
// plus signs) and requires the remainder to be at least ten ASCII digits. The
// unstripped value must not contain letters.
func checkPhone(value string) bool {
	if containsLatinOrCyrillicLetter(value) {
		return false
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '(', ')', '-', '+':
			return -1
		}
		return r
	}, value)
	if len(digits) < minPhoneDigits {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
