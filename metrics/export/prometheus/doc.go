// Package prometheus renders breaker metrics for Prometheus scrapes.
//
// [NewPrometheusExporter] accepts an [authbreaker.Breaker] and exposes an
// [http.Handler] that renders all breaker counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// authbreaker_*_total; the single histogram is
// authbreaker_record_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate breaker state.
package prometheus
