// Package metrics exports delegation store activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/screwyprof/mixdelegator/wallet/state"
)

const MetricsRoute = http.MethodGet + " " + "/metrics"

// Refresh outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Recorder turns store events into metrics
type Recorder struct {
	refreshesStarted  prometheus.Counter
	refreshesFinished *prometheus.CounterVec
	refreshDuration   *prometheus.HistogramVec
	staleResults      prometheus.Counter
	delegations       *prometheus.GaugeVec
	generation        prometheus.Gauge
}

// NewRecorder registers the store metrics with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		refreshesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixdelegator_store_refreshes_started_total",
			Help: "Number of delegation list reset and fetch cycles started",
		}),
		refreshesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mixdelegator_store_refreshes_finished_total",
			Help: "Number of delegation list fetches applied to the store, by outcome",
		}, []string{"network", "outcome"}),
		refreshDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mixdelegator_store_refresh_duration_seconds",
			Help:    "Time from reset to the terminal state of a fetch cycle",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		staleResults: factory.NewCounter(prometheus.CounterOpts{
			Name: "mixdelegator_store_stale_results_total",
			Help: "Number of fetch results discarded because a newer cycle had started",
		}),
		delegations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mixdelegator_store_delegations",
			Help: "Number of delegations in the last loaded list",
		}, []string{"network"}),
		generation: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mixdelegator_store_generation",
			Help: "Request generation of the current fetch cycle",
		}),
	}
}

// SubscriberOptions wires the recorder into a state.Subscriber
func (r *Recorder) SubscriberOptions() []func(*state.Subscriber) {
	return []func(*state.Subscriber){
		state.OnRefreshStarted(func(e state.RefreshStarted) {
			r.refreshesStarted.Inc()
			r.generation.Set(float64(e.Generation))
		}),
		state.OnRefreshCompleted(func(e state.RefreshCompleted) {
			r.refreshesFinished.WithLabelValues(e.Network, OutcomeCompleted).Inc()
			r.refreshDuration.WithLabelValues(OutcomeCompleted).Observe(e.Duration.Seconds())
			r.delegations.WithLabelValues(e.Network).Set(float64(e.Delegations))
		}),
		state.OnRefreshFailed(func(e state.RefreshFailed) {
			r.refreshesFinished.WithLabelValues(e.Network, OutcomeFailed).Inc()
			r.refreshDuration.WithLabelValues(OutcomeFailed).Observe(e.Duration.Seconds())
		}),
		state.OnStaleResultDiscarded(func(state.StaleResultDiscarded) {
			r.staleResults.Inc()
		}),
	}
}

// AddRoutes exposes the gatherer on /metrics
func AddRoutes(m *http.ServeMux, g prometheus.Gatherer) {
	m.Handle(MetricsRoute, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
