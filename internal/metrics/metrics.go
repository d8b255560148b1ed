package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "product_type_generator"

// Metrics are the counters of a single generator run.
type Metrics struct {
	registry *prometheus.Registry

	// RowsRead is the number of input rows read, by table (types, attributes).
	RowsRead *prometheus.CounterVec

	// AttributeDefinitions is the number of attribute definitions built.
	AttributeDefinitions prometheus.Gauge

	// ProductTypes is the number of product types, by variant and result (generated, skipped).
	ProductTypes *prometheus.CounterVec

	// Files is the number of output documents, by result (written, unchanged, failed, invalid).
	Files *prometheus.CounterVec

	// WriteDuration is the latency of individual sink writes.
	WriteDuration prometheus.Histogram

	// Duration is the wall time of the run in seconds.
	Duration prometheus.Gauge

	// LastRun is the unix time the run finished.
	LastRun prometheus.Gauge
}

// New returns metrics registered on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "The number of input rows read",
		}, []string{"table"}),
		AttributeDefinitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attribute_definitions",
			Help:      "The number of attribute definitions built",
		}),
		ProductTypes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_types_total",
			Help:      "The number of product type definitions",
		}, []string{"variant", "result"}),
		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "The number of output documents",
		}, []string{"result"}),
		WriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "The duration of sink writes",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "The duration of the last run",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "The unix time the last run finished",
		}),
	}
	m.registry.MustRegister(m.RowsRead, m.AttributeDefinitions, m.ProductTypes, m.Files, m.WriteDuration, m.Duration, m.LastRun)
	return m
}

// WriteTextfile writes the metrics in the text exposition format, suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// collect calls the function for each metric associated with the Collector
func collect(col prometheus.Collector, do func(*dto.Metric)) {
	c := make(chan prometheus.Metric)
	go func(c chan prometheus.Metric) {
		col.Collect(c)
		close(c)
	}(c)
	for x := range c {
		m := dto.Metric{}
		_ = x.Write(&m)
		do(&m)
	}
}

// Total returns the sum of the metrics associated with the Collector, e.g. the
// value for a non-vector or the sum across labels for a vector.
// If the metric is a Histogram then the number of samples is used.
func Total(col prometheus.Collector) float64 {
	var total float64
	collect(col, func(m *dto.Metric) {
		switch {
		case m.GetHistogram() != nil:
			total += float64(m.GetHistogram().GetSampleCount())
		case m.GetGauge() != nil:
			total += m.GetGauge().GetValue()
		default:
			total += m.GetCounter().GetValue()
		}
	})
	return total
}
