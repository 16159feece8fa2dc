// Package metrics exports validation activity as Prometheus metrics.
//
// A Collector owns the metric vectors; Observer binds it to one form so it can
// be passed to validator.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	collector, err := metrics.New(metrics.WithRegisterer(reg))
//	if err != nil {
//		return err
//	}
//	v, err := validator.New(doc, "#signup", validator.WithObserver(collector.Observer("signup")))
//
// Metrics:
//   - formguard_validation_passes_total: passes by form and result
//   - formguard_validation_field_failures_total: failing fields by form and field
//   - formguard_validation_rule_failures_total: failing rules by form and rule kind
//   - formguard_validation_duration_seconds: pass duration by form
package metrics
