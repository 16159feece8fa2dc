package rules

import "unicode/utf8"

const minPasswordLength = 8

func checkStrongPassword(value string) bool {
	if utf8.RuneCountInString(value) < minPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}
