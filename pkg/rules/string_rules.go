package rules

import (
	"unicode"
	"unicode/utf8"
)

func checkRequired(value string) bool {
	return len(value) > 0
}

func checkMinLength(value string, param Param) bool {
	n, _ := param.(Length)
	return utf8.RuneCountInString(value) >= int(n)
}

// A nil bound means unbounded.
func checkMaxLength(value string, param Param) bool {
	n, ok := param.(Length)
	if !ok {
		return true
	}
	return utf8.RuneCountInString(value) <= int(n)
}

func checkLatinOrCyrillic(value string) bool {
	for _, r := range value {
		if unicode.IsSpace(r) || isLatinOrCyrillicLetter(r) {
			continue
		}
		return false
	}
	return true
}

// Cyrillic here is the basic Russian alphabet (а-я, А-Я) plus ё and Ё.
func isLatinOrCyrillicLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я':
		return true
	case r == 'ё', r == 'Ё':
		return true
	default:
		return false
	}
}

func containsLatinOrCyrillicLetter(value string) bool {
	for _, r := range value {
		if isLatinOrCyrillicLetter(r) {
			return true
		}
	}
	return false
}

func checkCustom(value string, param Param) bool {
	fn, ok := param.(Predicate)
	if !ok || fn == nil {
		return true
	}
	return fn(value)
}
