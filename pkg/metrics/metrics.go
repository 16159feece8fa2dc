package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formguard/pkg/rules"
	"github.com/goliatone/go-formguard/pkg/validator"
)

const (
	defaultNamespace = "formguard"
	defaultSubsystem = "validation"

	// ResultValid and ResultInvalid label the passes counter.
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Validation passes are in-memory rule checks, so buckets start at 1µs.
var defaultBuckets = prometheus.ExponentialBuckets(0.000001, 4, 10)

// Collector holds the validation metric vectors.
type Collector struct {
	passesTotal        *prometheus.CounterVec
	fieldFailuresTotal *prometheus.CounterVec
	ruleFailuresTotal  *prometheus.CounterVec
	passDuration       *prometheus.HistogramVec
}

type config struct {
	namespace  string
	subsystem  string
	buckets    []float64
	registerer prometheus.Registerer
}

// Option customises a Collector.
type Option func(*config)

// WithNamespace overrides the metric namespace.
func WithNamespace(namespace string) Option {
	return func(c *config) {
		if strings.TrimSpace(namespace) != "" {
			c.namespace = namespace
		}
	}
}

// WithSubsystem overrides the metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *config) {
		if strings.TrimSpace(subsystem) != "" {
			c.subsystem = subsystem
		}
	}
}

// WithBuckets overrides the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		if len(buckets) > 0 {
			c.buckets = append([]float64(nil), buckets...)
		}
	}
}

// WithRegisterer sets where the vectors are registered. Defaults to
// prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		if reg != nil {
			c.registerer = reg
		}
	}
}

// New creates and registers the validation metrics.
func New(options ...Option) (*Collector, error) {
	cfg := config{
		namespace:  defaultNamespace,
		subsystem:  defaultSubsystem,
		buckets:    defaultBuckets,
		registerer: prometheus.DefaultRegisterer,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	c := &Collector{
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Subsystem: cfg.subsystem,
				Name:      "passes_total",
				Help:      "Total number of validation passes",
			},
			[]string{"form", "result"},
		),
		fieldFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Subsystem: cfg.subsystem,
				Name:      "field_failures_total",
				Help:      "Total number of fields that failed at least one rule",
			},
			[]string{"form", "field"},
		),
		ruleFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Subsystem: cfg.subsystem,
				Name:      "rule_failures_total",
				Help:      "Total number of failed rule evaluations",
			},
			[]string{"form", "rule"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Subsystem: cfg.subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of validation passes in seconds",
				Buckets:   cfg.buckets,
			},
			[]string{"form"},
		),
	}

	for _, collector := range []prometheus.Collector{
		c.passesTotal,
		c.fieldFailuresTotal,
		c.ruleFailuresTotal,
		c.passDuration,
	} {
		if err := cfg.registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// RecordPass records the verdict and duration of one pass.
func (c *Collector) RecordPass(form string, valid bool, elapsed time.Duration) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	c.passesTotal.WithLabelValues(form, result).Inc()
	c.passDuration.WithLabelValues(form).Observe(elapsed.Seconds())
}

// RecordFailures records the rules that failed for one field. An empty list is
// a no-op.
func (c *Collector) RecordFailures(form, field string, failed []rules.Rule) {
	if len(failed) == 0 {
		return
	}
	c.fieldFailuresTotal.WithLabelValues(form, field).Inc()
	for _, rule := range failed {
		c.ruleFailuresTotal.WithLabelValues(form, string(rule.Kind)).Inc()
	}
}

// Observer returns a validator.Observer that reports under the given form
// label.
func (c *Collector) Observer(form string) validator.Observer {
	return formObserver{collector: c, form: form}
}

type formObserver struct {
	collector *Collector
	form      string
}

func (o formObserver) ObserveField(field string, failed []rules.Rule) {
	o.collector.RecordFailures(o.form, field, failed)
}

func (o formObserver) ObservePass(outcome validator.Outcome, elapsed time.Duration) {
	o.collector.RecordPass(o.form, outcome.Valid, elapsed)
}
