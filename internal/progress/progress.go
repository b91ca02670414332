// Package progress tracks and renders byte progress of a pipeline run.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Phases reported through Progress.Phase.
const (
	PhaseCompress   = "compress"
	PhaseDecompress = "decompress"
	PhaseDone       = "done"
	PhaseError      = "error"
)

// Progress describes how far a run has advanced.
// Bytes counts source bytes consumed. Total is the source size, or 0 when
// the size is unknown.
type Progress struct {
	Phase     string
	Operation string
	Bytes     int64
	Total     int64
	StartTime time.Time
	Err       error
}

// Percent returns the completed fraction as a percentage, or 0 when the
// total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Bytes) / float64(p.Total) * 100
}

// Func is called with progress updates.
type Func func(Progress)

// Counter is a monotonically increasing byte count, optionally capped.
type Counter struct {
	n     atomic.Int64
	limit int64
}

// NewCounter returns a counter capped at limit. A limit <= 0 disables the cap.
func NewCounter(limit int64) *Counter {
	return &Counter{limit: limit}
}

// Add increases the count by n. Negative deltas are ignored.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.n.Add(n)
	}
}

// Load returns the current count, never above the cap.
func (c *Counter) Load() int64 {
	v := c.n.Load()
	if c.limit > 0 && v > c.limit {
		return c.limit
	}
	return v
}

// Total returns the uncapped count.
func (c *Counter) Total() int64 {
	return c.n.Load()
}

// Writer wraps an io.Writer to count bytes written.
type Writer struct {
	w       io.Writer
	written *Counter
}

// NewWriter returns a Writer that adds to counter.
func NewWriter(w io.Writer, counter *Counter) *Writer {
	return &Writer{w: w, written: counter}
}

func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written.Add(int64(n))
	return n, err
}

// Reader wraps an io.Reader to count bytes read.
type Reader struct {
	r    io.Reader
	read *Counter
}

// NewReader returns a Reader that adds to counter.
func NewReader(r io.Reader, counter *Counter) *Reader {
	return &Reader{r: r, read: counter}
}

func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read.Add(int64(n))
	return n, err
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
