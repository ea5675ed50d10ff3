package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignalsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_evaluated_total", Help: "Signals classified, by terminal result"},
		[]string{"result"},
	)
	LookupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "price_lookup_failures_total", Help: "Failed price provider lookups"},
	)
	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_pass_duration_seconds",
			Help:    "Wall time of a full evaluation pass",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(SignalsEvaluated, LookupFailures, PassDuration)
}
