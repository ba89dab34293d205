package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_insight"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	Reports     *prometheus.CounterVec // labels: outcome={success,error}
	StageErrors *prometheus.CounterVec // labels: stage={ip_lookup,resolve,fetch,transform,render}

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: upstream={identme,ipapi,metno}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: upstream
	CacheLookups     *prometheus.CounterVec   // labels: cache={location,forecast}, result={hit,miss}

	ReportsPublished *prometheus.CounterVec // labels: outcome={success,error}
	WebSocketClients prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Weather reports composed, by outcome.",
		}, []string{"outcome"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Report failures by the stage that failed.",
		}, []string{"stage"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests to upstream APIs by upstream and outcome.",
		}, []string{"upstream", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"upstream"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Reports written to the Kafka sink, by outcome.",
		}, []string{"outcome"}),
		WebSocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected WebSocket clients.",
		}),
	}
}

// NewMetrics creates all service metrics and registers them with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Reports,
		m.StageErrors,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.ReportsPublished,
		m.WebSocketClients,
	}
}
