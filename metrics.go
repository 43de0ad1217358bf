package abuseguard

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	MetricReportsAttempted  = "abuseguard_reports_attempted_total"
	MetricReportsSuppressed = "abuseguard_reports_suppressed_total"
	MetricReportsSent       = "abuseguard_reports_sent_total"
	MetricReportsFailed     = "abuseguard_reports_failed_total"
	MetricReportsQueued     = "abuseguard_reports_queued_total"
	MetricReportDuration    = "abuseguard_report_duration_seconds"
	MetricCacheEntries      = "abuseguard_report_cache_entries"
)

type InMemoryMetricsCollector struct {
	counters   map[string]map[string]int64
	gauges     map[string]map[string]float64
	histograms map[string]map[string][]float64
	mu         sync.RWMutex
}

func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		counters:   make(map[string]map[string]int64),
		gauges:     make(map[string]map[string]float64),
		histograms: make(map[string]map[string][]float64),
	}
}

func (m *InMemoryMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters[name] == nil {
		m.counters[name] = make(map[string]int64)
	}
	m.counters[name][labelKey(labels)]++
}

func (m *InMemoryMetricsCollector) ObserveHistogram(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.histograms[name] == nil {
		m.histograms[name] = make(map[string][]float64)
	}
	key := labelKey(labels)
	m.histograms[name][key] = append(m.histograms[name][key], value)
}

func (m *InMemoryMetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gauges[name] == nil {
		m.gauges[name] = make(map[string]float64)
	}
	m.gauges[name][labelKey(labels)] = value
}

// labelKey renders labels in Prometheus form with sorted keys
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return strings.Join(parts, ",")
}

// GetCounterValue returns the current value of a counter (for testing/debugging)
func (m *InMemoryMetricsCollector) GetCounterValue(name string, labels map[string]string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if counters, exists := m.counters[name]; exists {
		return counters[labelKey(labels)]
	}
	return 0
}

// GetGaugeValue returns the current value of a gauge (for testing/debugging)
func (m *InMemoryMetricsCollector) GetGaugeValue(name string, labels map[string]string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if gauges, exists := m.gauges[name]; exists {
		return gauges[labelKey(labels)]
	}
	return 0
}

// GetHistogramCount returns how many observations a histogram holds
func (m *InMemoryMetricsCollector) GetHistogramCount(name string, labels map[string]string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.histograms[name][labelKey(labels)])
}

func (m *InMemoryMetricsCollector) HealthCheck() error {
	return nil
}

// ExportPrometheus exports metrics in Prometheus text format
func (m *InMemoryMetricsCollector) ExportPrometheus() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var output strings.Builder

	for _, name := range sortedKeys(m.counters) {
		fmt.Fprintf(&output, "# TYPE %s counter\n", name)
		for _, labels := range sortedKeys(m.counters[name]) {
			fmt.Fprintf(&output, "%s%s %d\n", name, wrapLabels(labels), m.counters[name][labels])
		}
	}

	for _, name := range sortedKeys(m.gauges) {
		fmt.Fprintf(&output, "# TYPE %s gauge\n", name)
		for _, labels := range sortedKeys(m.gauges[name]) {
			fmt.Fprintf(&output, "%s%s %g\n", name, wrapLabels(labels), m.gauges[name][labels])
		}
	}

	// Histograms are exported as summaries without quantiles
	for _, name := range sortedKeys(m.histograms) {
		fmt.Fprintf(&output, "# TYPE %s summary\n", name)
		for _, labels := range sortedKeys(m.histograms[name]) {
			values := m.histograms[name][labels]
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			fmt.Fprintf(&output, "%s_sum%s %g\n", name, wrapLabels(labels), sum)
			fmt.Fprintf(&output, "%s_count%s %d\n", name, wrapLabels(labels), len(values))
		}
	}

	return output.String()
}

func wrapLabels(labels string) string {
	if labels == "" {
		return ""
	}
	return "{" + labels + "}"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
