package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_predictions_total",
		Help: "Total number of prediction requests by outcome",
	}, []string{"outcome"})

	predictionCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_prediction_cache_total",
		Help: "Prediction cache lookups by result",
	}, []string{"result"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lineup_prediction_duration_seconds",
		Help:    "Time to build an uncached prediction",
		Buckets: prometheus.DefBuckets,
	})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_fetch_failures_total",
		Help: "Failed provider fetches during prediction, by input",
	}, []string{"input"})
)
