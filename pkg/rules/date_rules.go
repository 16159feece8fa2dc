package rules

import (
	"strings"
	"time"
)

type dateLayout struct {
	layout   string
	dateOnly bool
}

var defaultDateLayouts = []dateLayout{
	{layout: "2006-01-02", dateOnly: true},
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: "01/02/2006", dateOnly: true},
	{layout: "02.01.2006", dateOnly: true},
}

// checkDateNotFuture reports whether value is a date no later than now.
// Date-only values compare by calendar day in the clock's location, so today
// passes. Values that match no layout fail.
func (e *Engine) checkDateNotFuture(value string) bool {
	now := e.now()
	for _, candidate := range e.layouts {
		parsed, err := time.ParseInLocation(candidate.layout, value, now.Location())
		if err != nil {
			continue
		}
		if candidate.dateOnly {
			return !startOfDay(parsed).After(startOfDay(now))
		}
		return !parsed.After(now)
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// hasClockElement reports whether layout carries an hour, minute, second or
// AM/PM element. Date elements of a reference layout never use the digits 3,
// 4 or 5.
func hasClockElement(layout string) bool {
	if strings.ContainsAny(layout, "345") {
		return true
	}
	return strings.Contains(layout, "PM") || strings.Contains(layout, "pm")
}
