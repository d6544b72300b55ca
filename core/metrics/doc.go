// Package metrics holds the Prometheus registry of the service.
//
// It exposes HTTP request counters and latencies (recorded by Middleware), refresh
// outcomes and durations, and the size of the stored dataset. Handler serves the
// registry on /metrics.
package metrics
