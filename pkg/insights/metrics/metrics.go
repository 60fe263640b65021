// Package metrics exposes report results as Prometheus metrics, written to
// a node-exporter textfile after each run.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/insights/pkg/insights/report"
)

var (
	recordsDesc = prometheus.NewDesc(
		"insights_records_total",
		"Visit records read for the run",
		nil, nil,
	)
	undatedDesc = prometheus.NewDesc(
		"insights_records_undated_total",
		"Visit records whose date could not be parsed",
		nil, nil,
	)
	commentedDesc = prometheus.NewDesc(
		"insights_commented_rows",
		"Records with at least one searched field filled, by month window",
		[]string{"window"}, nil,
	)
	mentionsDesc = prometheus.NewDesc(
		"insights_keyword_mentions",
		"Records mentioning a keyword, by month window",
		[]string{"window", "keyword"}, nil,
	)
)

// ReportCollector emits the figures of the last observed report on each
// gather.
type ReportCollector struct {
	mu sync.RWMutex
	r  *report.Report
}

// Describe sends the metric descriptors to the channel.
func (c *ReportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- recordsDesc
	ch <- undatedDesc
	ch <- commentedDesc
	ch <- mentionsDesc
}

// Collect emits the observed report as gauges.
func (c *ReportCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	r := c.r
	c.mu.RUnlock()
	if r == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(recordsDesc, prometheus.GaugeValue, float64(r.Records))
	ch <- prometheus.MustNewConstMetric(undatedDesc, prometheus.GaugeValue, float64(r.Undated))
	for _, mk := range r.Interests.Months {
		ch <- prometheus.MustNewConstMetric(commentedDesc, prometheus.GaugeValue, float64(mk.Commented), mk.Window)
		for _, ks := range mk.Top {
			ch <- prometheus.MustNewConstMetric(mentionsDesc, prometheus.GaugeValue, float64(ks.Count), mk.Window, ks.Keyword)
		}
	}
}

// Metrics owns a private registry so runs never touch the global one.
type Metrics struct {
	reg       *prometheus.Registry
	collector *ReportCollector
}

// New creates a registry with the report collector registered.
func New() *Metrics {
	m := &Metrics{
		reg:       prometheus.NewRegistry(),
		collector: &ReportCollector{},
	}
	m.reg.MustRegister(m.collector)
	return m
}

// Observe makes r the report reported on the next gather.
func (m *Metrics) Observe(r *report.Report) {
	m.collector.mu.Lock()
	m.collector.r = r
	m.collector.mu.Unlock()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteTextfile writes the current metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
