package validator

import (
	"time"

	"github.com/goliatone/go-formguard/pkg/rules"
)

// Observer receives per-field and per-pass notifications, typically to feed
// metrics. Calls happen synchronously inside ValidateAll.
type Observer interface {
	ObserveField(field string, failed []rules.Rule)
	ObservePass(outcome Outcome, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveField(string, []rules.Rule) {}
func (noopObserver) ObservePass(Outcome, time.Duration) {}
