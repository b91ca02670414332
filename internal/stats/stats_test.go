package stats

import "testing"

func TestHelp(t *testing.T) {
	if got := Help(MetricBytesRead); got == MetricBytesRead {
		t.Errorf("Help(%q) should describe the metric", MetricBytesRead)
	}
	if got := Help("custom_metric"); got != "custom_metric" {
		t.Errorf("Help(custom_metric) = %q, want the name", got)
	}
}

func TestNoop(t *testing.T) {
	var c Collector = NewNoop()
	c.IncCounter(MetricOperations, 1)
	c.SetGauge(MetricLastRatio, 50)
	c.ObserveHistogram(MetricDuration, 0.1)
}
