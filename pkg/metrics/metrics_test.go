package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/dom/htmldoc"
	"github.com/goliatone/go-formguard/pkg/metrics"
	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/validator"
)

const page = `<form id="signup">
  <input name="name" value="Ив">
  <div id="name-errors"></div>
  <input name="email" value="">
  <div id="email-errors"></div>
</form>`

func newCollector(t *testing.T) (*metrics.Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(metrics.WithRegisterer(reg))
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	return collector, reg
}

func TestNew_RejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.New(metrics.WithRegisterer(reg)); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := metrics.New(metrics.WithRegisterer(reg)); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := metrics.New(metrics.WithRegisterer(reg), metrics.WithNamespace("other")); err != nil {
		t.Fatalf("distinct namespace should register: %v", err)
	}
}

func TestCollector_RecordsDirectCalls(t *testing.T) {
	collector, reg := newCollector(t)

	collector.RecordPass("login", true, 2*time.Millisecond)
	collector.RecordPass("login", false, time.Millisecond)
	collector.RecordFailures("login", "#email", []rules.Rule{
		rules.Required("required"),
		rules.Email("email"),
	})
	collector.RecordFailures("login", "#name", nil)

	passes, err := testutil.GatherAndCount(reg, "formguard_validation_passes_total")
	if err != nil || passes != 2 {
		t.Fatalf("expected 2 pass series, got %d (%v)", passes, err)
	}
	fields, err := testutil.GatherAndCount(reg, "formguard_validation_field_failures_total")
	if err != nil || fields != 1 {
		t.Fatalf("expected 1 field failure series, got %d (%v)", fields, err)
	}
	rulesSeries, err := testutil.GatherAndCount(reg, "formguard_validation_rule_failures_total")
	if err != nil || rulesSeries != 2 {
		t.Fatalf("expected 2 rule failure series, got %d (%v)", rulesSeries, err)
	}
}

func TestObserver_FeedsFromValidator(t *testing.T) {
	collector, reg := newCollector(t)

	doc, err := htmldoc.ParseString(page, htmldoc.WithLogger(testsupport.QuietLogger()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := validator.New(doc, "#signup",
		validator.WithLogger(testsupport.QuietLogger()),
		validator.WithObserver(collector.Observer("signup")),
	)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	v.Field(`input[name="name"]`, validator.FieldConfig{
		Rules:          []rules.Rule{rules.Required("required"), rules.MinLength(3, "short")},
		ErrorContainer: dom.DisplaySelector("#name-errors"),
	}).Field(`input[name="email"]`, validator.FieldConfig{
		Rules:          []rules.Rule{rules.Required("required"), rules.Email("email")},
		ErrorContainer: dom.DisplaySelector("#email-errors"),
	})
	if err := v.Err(); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := v.ValidateAll(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := doc.SetValue(`input[name="name"]`, "Иван"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := doc.SetValue(`input[name="email"]`, "ivan@example.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if err := doc.Submit("#signup"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	expected := `
# HELP formguard_validation_passes_total Total number of validation passes
# TYPE formguard_validation_passes_total counter
formguard_validation_passes_total{form="signup",result="invalid"} 1
formguard_validation_passes_total{form="signup",result="valid"} 1
# HELP formguard_validation_rule_failures_total Total number of failed rule evaluations
# TYPE formguard_validation_rule_failures_total counter
formguard_validation_rule_failures_total{form="signup",rule="email"} 1
formguard_validation_rule_failures_total{form="signup",rule="minLength"} 1
formguard_validation_rule_failures_total{form="signup",rule="required"} 1
# HELP formguard_validation_field_failures_total Total number of fields that failed at least one rule
# TYPE formguard_validation_field_failures_total counter
formguard_validation_field_failures_total{field="input[name=\"email\"]",form="signup"} 1
formguard_validation_field_failures_total{field="input[name=\"name\"]",form="signup"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"formguard_validation_passes_total",
		"formguard_validation_rule_failures_total",
		"formguard_validation_field_failures_total",
	); err != nil {
		t.Fatalf("metrics mismatch: %v", err)
	}
	durations, err := testutil.GatherAndCount(reg, "formguard_validation_duration_seconds")
	if err != nil || durations != 1 {
		t.Fatalf("expected one duration series, got %d (%v)", durations, err)
	}
}
