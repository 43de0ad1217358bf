package abuseguard

import (
	"context"
	"time"
)

// ReportCache interface for pluggable deduplication storage
type ReportCache interface {
	// Acquire checks and records a report attempt for ip as one atomic step.
	// It returns false when ip already has an attempt younger than the TTL.
	Acquire(ip string, now time.Time) bool
	Last(ip string) (time.Time, bool)
	Sweep(now time.Time) int
	Len() int
}

// Sender delivers a single report to the abuse-reporting API
type Sender interface {
	Send(ctx context.Context, report Report) error
	Name() string
}

// RequestInfo is the narrow view of a framework request the core needs.
// ClientIP returns "" or "unknown" when the address cannot be resolved.
type RequestInfo interface {
	Path() string
	ClientIP() string
}

// Clock returns the current time; overridden in tests
type Clock func() time.Time

// Report is built per attempt, sent, then discarded
type Report struct {
	ID         string
	IP         string
	Categories string
	Comment    string
	Timestamp  time.Time
}

// MetricsCollector interface for observability
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
	HealthCheck() error
	ExportPrometheus() string
}
