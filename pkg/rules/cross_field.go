package rules

import "strings"

func checkEquals(value string, param Param, lookup Lookup) (bool, error) {
	ref, ok := param.(FieldRef)
	if !ok {
		return false, paramErrorf(KindEquals, "expects a field reference, got %T", param)
	}
	selector := string(ref)
	if lookup == nil {
		return false, &FieldNotFoundError{Selector: selector}
	}
	other, found := lookup.Lookup(selector)
	if !found {
		return false, &FieldNotFoundError{Selector: selector}
	}
	return value == strings.TrimSpace(other), nil
}
