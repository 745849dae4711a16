// Package otel provides OpenTelemetry metric exporter bindings for breaker
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// breaker metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [authbreaker.Breaker.MetricsSnapshot] on each collection
// cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate breaker state.
package otel
