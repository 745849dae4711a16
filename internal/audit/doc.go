// Package audit defines the breaker's audit event model and the sink
// implementations events can be forwarded to. Dispatching is asynchronous
// and owned by the root package; sinks only need to be safe for calls from
// a single dispatcher goroutine.
package audit
