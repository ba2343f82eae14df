package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	TableRows      *prometheus.GaugeVec // labels: table={weekly,annual}
	Renders        prometheus.Counter
	RenderDuration prometheus.Histogram
	NoData         *prometheus.CounterVec // labels: panel
	Requests       *prometheus.CounterVec // labels: endpoint, outcome={ok,no_data,bad_request,error}
	ActiveSessions prometheus.Gauge

	// View event publishing.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		TableRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nndss_dashboard",
			Name:      "table_rows",
			Help:      "Rows loaded per input table.",
		}, []string{"table"}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nndss_dashboard",
			Name:      "renders_total",
			Help:      "Total dashboard view-model recomputations.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nndss_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Duration of a full view-model recomputation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NoData: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nndss_dashboard",
			Name:      "no_data_total",
			Help:      "Panels rendered as a no-data placeholder, by panel.",
		}, []string{"panel"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nndss_dashboard",
			Name:      "api_requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nndss_dashboard",
			Name:      "active_sessions",
			Help:      "Open interactive WebSocket sessions.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nndss_dashboard",
			Name:      "view_events_published_total",
			Help:      "View events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nndss_dashboard",
			Name:      "view_event_publish_errors_total",
			Help:      "View events that failed to publish.",
		}),
	}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.TableRows,
		m.Renders,
		m.RenderDuration,
		m.NoData,
		m.Requests,
		m.ActiveSessions,
		m.EventsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
