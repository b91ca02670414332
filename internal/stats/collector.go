// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	MetricOperations   = "squash_operations_total"
	MetricErrors       = "squash_errors_total"
	MetricBytesRead    = "squash_bytes_read_total"
	MetricBytesWritten = "squash_bytes_written_total"
	MetricDuration     = "squash_operation_seconds"
	MetricLastRatio    = "squash_last_ratio_percent"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

var help = map[string]string{
	MetricOperations:   "Compress and decompress operations started.",
	MetricErrors:       "Operations that failed.",
	MetricBytesRead:    "Bytes read from operation sources.",
	MetricBytesWritten: "Bytes written to operation destinations.",
	MetricDuration:     "Wall time of completed operations in seconds.",
	MetricLastRatio:    "Output size of the last completed operation as a percentage of its input.",
}

// Help returns the description of a metric, or the name itself for metrics
// not declared in this package.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}
