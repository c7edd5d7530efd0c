// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Source metrics
	SourceLoads     *prometheus.CounterVec
	SourceRecords   prometheus.Gauge
	RowsDropped     *prometheus.CounterVec
	ProjectsKnown   prometheus.Gauge
	ProjectsUnknown prometheus.Gauge

	// Price refresh metrics
	RefreshRunsTotal *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	LastRefresh      prometheus.Gauge
	CurrentPrice     *prometheus.GaugeVec

	// External API metrics
	APICallLatency *prometheus.HistogramVec
	APICallErrors  *prometheus.CounterVec

	// Avatar cache metrics
	AvatarLookups *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	WSClients    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rfa_explorer"
	}

	return &Metrics{
		SourceLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "loads_total",
			Help:      "Total number of allocation source loads by kind and result",
		}, []string{"kind", "result"}),
		SourceRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "records",
			Help:      "Number of raw records returned by the last source load",
		}),
		RowsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "rows_dropped_total",
			Help:      "Total number of input rows dropped by reason",
		}, []string{"reason"}),
		ProjectsKnown: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "known",
			Help:      "Projects with a confirmed allocation in the last load",
		}),
		ProjectsUnknown: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projects",
			Name:      "unknown",
			Help:      "Projects with an unconfirmed allocation in the last load",
		}),

		RefreshRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of price refresh runs by status",
		}, []string{"status"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Price refresh duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastRefresh: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_timestamp",
			Help:      "Unix timestamp of last successful price refresh",
		}),
		CurrentPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "current_price_usd",
			Help:      "Latest USD price by token",
		}, []string{"token"}),

		APICallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_latency_seconds",
			Help:      "External API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api", "method"}),
		APICallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_errors_total",
			Help:      "Total number of failed external API calls",
		}, []string{"api", "method"}),

		AvatarLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "avatar",
			Name:      "lookups_total",
			Help:      "Avatar lookups by result (hit, resolved, miss)",
		}, []string{"result"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "ws_clients",
			Help:      "Connected websocket price feed clients",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSourceLoad records one allocation source load.
func RecordSourceLoad(kind, result string, records int) {
	DefaultMetrics.SourceLoads.WithLabelValues(kind, result).Inc()
	DefaultMetrics.SourceRecords.Set(float64(records))
}

// RecordRowsDropped counts input rows dropped for reason.
func RecordRowsDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	DefaultMetrics.RowsDropped.WithLabelValues(reason).Add(float64(n))
}

// UpdateProjectCounts updates the known/unknown project gauges.
func UpdateProjectCounts(known, unknown int) {
	DefaultMetrics.ProjectsKnown.Set(float64(known))
	DefaultMetrics.ProjectsUnknown.Set(float64(unknown))
}

// Refresh run status labels.
const (
	RefreshOK    = "ok"
	RefreshError = "error"
)

// RecordRefresh records a price refresh run. The last-success gauge only
// moves for RefreshOK.
func RecordRefresh(status string, durationSeconds float64, finishedAtUnix int64) {
	DefaultMetrics.RefreshRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RefreshDuration.Observe(durationSeconds)
	if status == RefreshOK {
		DefaultMetrics.LastRefresh.Set(float64(finishedAtUnix))
	}
}

// UpdateCurrentPrice sets the latest USD price gauge for a token.
func UpdateCurrentPrice(token string, price float64) {
	DefaultMetrics.CurrentPrice.WithLabelValues(token).Set(price)
}

// RecordAPICall records external API call metrics.
func RecordAPICall(api, method string, seconds float64, err error) {
	DefaultMetrics.APICallLatency.WithLabelValues(api, method).Observe(seconds)
	if err != nil {
		DefaultMetrics.APICallErrors.WithLabelValues(api, method).Inc()
	}
}

// RecordAvatarLookup counts an avatar lookup outcome.
func RecordAvatarLookup(result string) {
	DefaultMetrics.AvatarLookups.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route string, code int, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, statusLabel(code)).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// UpdateWSClients sets the connected websocket client gauge.
func UpdateWSClients(n int) {
	DefaultMetrics.WSClients.Set(float64(n))
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
