package internaldefs

import (
	authbreaker "github.com/agriconnect/authbreaker"
)

// CounterDef binds a core metric ID to its exported name and help text.
type CounterDef struct {
	ID   authbreaker.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its exported name and help text.
type HistogramDef struct {
	ID   authbreaker.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter both exporters publish, in a stable order.
var CounterDefs = []CounterDef{
	{ID: authbreaker.MetricFailureRecorded, Name: "authbreaker_failure_recorded_total", Help: "Authentication failures recorded."},
	{ID: authbreaker.MetricSuccessReset, Name: "authbreaker_success_reset_total", Help: "Successful authentications that reset a failure counter."},
	{ID: authbreaker.MetricCircuitOpened, Name: "authbreaker_circuit_opened_total", Help: "Circuits opened by crossing the failure threshold."},
	{ID: authbreaker.MetricCircuitRejected, Name: "authbreaker_circuit_rejected_total", Help: "Requests rejected while a circuit was open."},
	{ID: authbreaker.MetricThrottleHit, Name: "authbreaker_throttle_hit_total", Help: "Requests denied by the window budget."},
	{ID: authbreaker.MetricStoreUnavailable, Name: "authbreaker_store_unavailable_total", Help: "Store round-trips that failed."},
	{ID: authbreaker.MetricIdentifierMissing, Name: "authbreaker_identifier_missing_total", Help: "Events that fell back to the sentinel identifier."},
}

// HistogramDefs lists every histogram both exporters publish.
var HistogramDefs = []HistogramDef{
	{ID: authbreaker.MetricRecordLatency, Name: "authbreaker_record_latency_seconds", Help: "RecordFailure store round-trip latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, Prometheus style.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with OTel-safe name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// eight-bucket layout.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
