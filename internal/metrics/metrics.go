package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsProcessed   *prometheus.CounterVec
	APIErrors           prometheus.Counter
	RequestSeconds      *prometheus.HistogramVec
	CandidatesValidated prometheus.Histogram
	InFlight            prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "delocator_requests_processed_total",
			Help: "Total number of processed anonymization requests.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "delocator_upstream_api_errors_total",
			Help: "Total number of errors received from upstream geocoding and POI APIs.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "delocator_upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream geocoding and POI APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"upstream"}),
		CandidatesValidated: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "delocator_validated_candidates",
			Help:    "Number of validated candidates per anonymization request.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "delocator_requests_in_flight",
			Help: "Current number of anonymization requests being processed.",
		}),
	}
}
