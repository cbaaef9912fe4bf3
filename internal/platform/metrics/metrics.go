package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated       prometheus.Counter
	PaymentsInitiated  prometheus.Counter
	PaymentsFinalized  prometheus.Counter
	PaymentsFailed     *prometheus.CounterVec
	FinalizePending    prometheus.Counter
	PipelineStageSecs  *prometheus.HistogramVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics against the given registerer. Tests pass a
// fresh registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "biopay_users_created_total",
			Help: "Total number of users created in the system",
		}),
		PaymentsInitiated: factory.NewCounter(prometheus.CounterOpts{
			Name: "biopay_payments_initiated_total",
			Help: "Total number of transfer pipelines started",
		}),
		PaymentsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "biopay_payments_finalized_total",
			Help: "Total number of transfers finalized and executed",
		}),
		PaymentsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biopay_payments_failed_total",
			Help: "Total number of transfers that failed, by pipeline stage",
		}, []string{"stage"}),
		FinalizePending: factory.NewCounter(prometheus.CounterOpts{
			Name: "biopay_finalize_pending_total",
			Help: "Finalize attempts that found the grant still awaiting user interaction",
		}),
		PipelineStageSecs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biopay_pipeline_stage_duration_seconds",
			Help:    "Latency of individual transfer pipeline stages",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biopay_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineStageSecs.WithLabelValues(stage).Observe(d.Seconds())
}

// IncPaymentFailed records a failed transfer attempt at the given stage.
func (m *Metrics) IncPaymentFailed(stage string) {
	if m == nil {
		return
	}
	m.PaymentsFailed.WithLabelValues(stage).Inc()
}
