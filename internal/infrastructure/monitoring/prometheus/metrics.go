package prometheus

import "time"

// DatasetMetrics holds every metric the dataset layer emits.
type DatasetMetrics struct {
	// DatasetLoadsTotal counts dataset open attempts by kind and status.
	DatasetLoadsTotal CounterVec

	// DatasetOpenDuration observes how long opening a dataset takes,
	// including any format conversion, by kind.
	DatasetOpenDuration HistogramVec

	// DatasetStructures reports the structure count of the most recently
	// opened database per kind.
	DatasetStructures GaugeVec

	// ConversionsTotal counts extended-XYZ conversions by status
	// ("converted", "reused", "failed").
	ConversionsTotal CounterVec

	// ConversionDuration observes extended-XYZ conversion wall time.
	ConversionDuration HistogramVec

	// ErrorsTotal counts failures by component and error code.
	ErrorsTotal CounterVec
}

// Buckets tuned to file-backed dataset work: opens are milliseconds to
// seconds, bulk conversions can run minutes.
var (
	DefaultOpenDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultConversionDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
)

// NewDatasetMetrics registers all dataset metrics on the collector and
// returns the populated struct.
func NewDatasetMetrics(collector MetricsCollector) *DatasetMetrics {
	m := &DatasetMetrics{}
	m.DatasetLoadsTotal = collector.RegisterCounter("dataset_loads_total", "Dataset open attempts", "kind", "status")
	m.DatasetOpenDuration = collector.RegisterHistogram("dataset_open_duration_seconds", "Dataset open duration", DefaultOpenDurationBuckets, "kind")
	m.DatasetStructures = collector.RegisterGauge("dataset_structures", "Structure count of the last opened database", "kind")
	m.ConversionsTotal = collector.RegisterCounter("conversions_total", "Extended-XYZ to database conversions", "status")
	m.ConversionDuration = collector.RegisterHistogram("conversion_duration_seconds", "Extended-XYZ conversion duration", DefaultConversionDurationBuckets, "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Failures by component and error code", "component", "code")
	return m
}

// NewNopDatasetMetrics returns a DatasetMetrics whose metrics discard every
// observation.  Components accept it when metrics are disabled.
func NewNopDatasetMetrics() *DatasetMetrics {
	return &DatasetMetrics{
		DatasetLoadsTotal:   noopCounterVec{},
		DatasetOpenDuration: noopHistogramVec{},
		DatasetStructures:   noopGaugeVec{},
		ConversionsTotal:    noopCounterVec{},
		ConversionDuration:  noopHistogramVec{},
		ErrorsTotal:         noopCounterVec{},
	}
}

// RecordDatasetLoad records one dataset open attempt.
func (m *DatasetMetrics) RecordDatasetLoad(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DatasetLoadsTotal.WithLabelValues(kind, status).Inc()
	m.DatasetOpenDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordConversion records one extended-XYZ conversion outcome.
func (m *DatasetMetrics) RecordConversion(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(status).Inc()
	m.ConversionDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordDatasetSize records the structure count of a freshly opened dataset.
func (m *DatasetMetrics) RecordDatasetSize(kind string, count int) {
	if m == nil {
		return
	}
	m.DatasetStructures.WithLabelValues(kind).Set(float64(count))
}

// RecordError records one classified failure.
func (m *DatasetMetrics) RecordError(component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
