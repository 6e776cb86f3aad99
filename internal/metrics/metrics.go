// Package metrics exports run results as a Prometheus textfile-collector file.
package metrics

import (
	"fmt"
	"os"
	"time"

	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reportsDesc = prometheus.NewDesc(
		"pfdstatus_reports",
		"Number of reports by response status",
		[]string{"response_status"},
		nil,
	)
	requestsDesc = prometheus.NewDesc(
		"pfdstatus_requests",
		"Number of requests for response by status",
		[]string{"status"},
		nil,
	)
	receivedPercentDesc = prometheus.NewDesc(
		"pfdstatus_requests_received_percent",
		"Percentage of requests for response that were received",
		nil,
		nil,
	)
	lastRunDesc = prometheus.NewDesc(
		"pfdstatus_last_run_timestamp_seconds",
		"Unix time of the run that produced these metrics",
		nil,
		nil,
	)
)

// RunCollector emits the gauges of a single analyse run.
type RunCollector struct {
	out     *schema.AnalysisOutput
	ranAt   time.Time
	percent float64
}

// NewRunCollector creates a collector for one run.
func NewRunCollector(out *schema.AnalysisOutput, receivedPercent float64, ranAt time.Time) *RunCollector {
	return &RunCollector{out: out, ranAt: ranAt, percent: receivedPercent}
}

// Describe sends the metric descriptors to the channel.
func (c *RunCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- reportsDesc
	ch <- requestsDesc
	ch <- receivedPercentDesc
	ch <- lastRunDesc
}

// Collect emits one gauge per status plus the run-level gauges.
func (c *RunCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range schema.AllResponseStatuses {
		ch <- prometheus.MustNewConstMetric(reportsDesc, prometheus.GaugeValue, float64(c.out.ResponseCounts[s]), string(s))
	}
	for _, s := range schema.AllRecipientStatuses {
		ch <- prometheus.MustNewConstMetric(requestsDesc, prometheus.GaugeValue, float64(c.out.RequestCounts[s]), string(s))
	}
	ch <- prometheus.MustNewConstMetric(receivedPercentDesc, prometheus.GaugeValue, c.percent)
	ch <- prometheus.MustNewConstMetric(lastRunDesc, prometheus.GaugeValue, float64(c.ranAt.Unix()))
}

// WriteTextfile writes the run metrics to path, replacing the file atomically.
func WriteTextfile(path string, collector prometheus.Collector) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return fmt.Errorf("failed to register run metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote metrics to %s\n", path)
	return nil
}
