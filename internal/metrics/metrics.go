package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's prometheus collectors on a private registry
// so tests can create instances without MustRegister collisions.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal    prometheus.Counter
	FlaresDetected *prometheus.CounterVec
	Deliveries     *prometheus.CounterVec
	FetchFailures  prometheus.Counter
}

// New creates and registers the flarewatch collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flarewatch_cycles_total",
			Help: "Monitoring cycles run.",
		}),
		FlaresDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flarewatch_flares_detected_total",
			Help: "Significant flares emitted by the monitor, by class letter.",
		}, []string{"class"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flarewatch_deliveries_total",
			Help: "Channel delivery attempts, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flarewatch_fetch_failures_total",
			Help: "Feed fetch calls that failed soft.",
		}),
	}
	m.registry.MustRegister(m.CyclesTotal, m.FlaresDetected, m.Deliveries, m.FetchFailures)
	return m
}

// ObserveDelivery records one channel delivery attempt.
func (m *Metrics) ObserveDelivery(channel string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.Deliveries.WithLabelValues(channel, outcome).Inc()
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
