// Package metrics exposes Prometheus metrics for grid decoding and the
// inspection server.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ssargent/gsbgrid/pkg/grid"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for gsb
type Metrics struct {
	registry *prometheus.Registry

	// Decode metrics
	recordsReadTotal    prometheus.Counter
	subGridsTotal       prometheus.Counter
	shiftsTotal         prometheus.Counter
	decodesTotal        *prometheus.CounterVec
	decodeErrorsTotal   *prometheus.CounterVec
	decodeDuration      prometheus.Histogram
	warningsTotal       prometheus.Counter
	kmzPointsTotal      *prometheus.CounterVec
	catalogEntriesGauge prometheus.Gauge

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
}

// NewMetrics creates all metrics and registers them on reg. A nil reg gets
// a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		recordsReadTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gsb_records_read_total",
				Help: "Total number of 16-byte records consumed by the decoder",
			},
		),

		subGridsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gsb_subgrids_decoded_total",
				Help: "Total number of sub-grids decoded",
			},
		),

		shiftsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gsb_shift_records_decoded_total",
				Help: "Total number of shift records decoded",
			},
		),

		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_decodes_total",
				Help: "Total number of grid file decodes",
			},
			[]string{"status"},
		),

		decodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_decode_errors_total",
				Help: "Total number of failed decodes by error kind",
			},
			[]string{"kind"},
		),

		decodeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gsb_decode_duration_seconds",
				Help:    "Grid file decode duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		warningsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gsb_decode_warnings_total",
				Help: "Total number of non-fatal header inconsistencies",
			},
		),

		kmzPointsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_kmz_points_total",
				Help: "Total number of KMZ coordinate points by outcome",
			},
			[]string{"status"},
		),

		catalogEntriesGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gsb_catalog_entries",
				Help: "Number of grids stored in the catalog",
			},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gsb_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gsb_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordsRead implements grid.Observer
func (m *Metrics) RecordsRead(n int) {
	m.recordsReadTotal.Add(float64(n))
}

// SubGridDecoded implements grid.Observer
func (m *Metrics) SubGridDecoded(_ string, shifts int) {
	m.subGridsTotal.Inc()
	m.shiftsTotal.Add(float64(shifts))
}

// DecodeFinished implements grid.Observer
func (m *Metrics) DecodeFinished(d time.Duration, err error) {
	m.decodeDuration.Observe(d.Seconds())
	if err != nil {
		m.decodesTotal.WithLabelValues(statusError).Inc()
		m.decodeErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	m.decodesTotal.WithLabelValues(statusSuccess).Inc()
}

// RecordWarnings counts decode warnings
func (m *Metrics) RecordWarnings(n int) {
	m.warningsTotal.Add(float64(n))
}

// RecordKMZPoints counts extracted and skipped KMZ points
func (m *Metrics) RecordKMZPoints(extracted, skipped int) {
	m.kmzPointsTotal.WithLabelValues(statusSuccess).Add(float64(extracted))
	m.kmzPointsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// SetCatalogEntries updates the catalog size gauge
func (m *Metrics) SetCatalogEntries(n int) {
	m.catalogEntriesGauge.Set(float64(n))
}

// ErrorKind maps a decode error to a metric label
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, grid.ErrInvalidFile):
		return "invalid_file"
	case errors.Is(err, grid.ErrTruncatedHeader):
		return "truncated_header"
	case errors.Is(err, grid.ErrTruncatedSubGridHeader):
		return "truncated_subgrid_header"
	case errors.Is(err, grid.ErrTruncatedShiftData):
		return "truncated_shift_data"
	case errors.Is(err, grid.ErrDecodeFailure):
		return "decode_failure"
	default:
		return "unknown"
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for a textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
