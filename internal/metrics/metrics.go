package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Premium feature lifecycle
	FeatureActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_feature_activations_total",
			Help: "Total number of premium feature activations",
		},
		[]string{"feature_type"},
	)

	FeatureDeactivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_feature_deactivations_total",
			Help: "Total number of premium feature deactivations by reason",
		},
		[]string{"feature_type", "reason"}, // "manual", "expired"
	)

	FeatureConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_feature_conflicts_total",
			Help: "Activations rejected because the feature was already active",
		},
		[]string{"feature_type"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_side_effect_failures_total",
			Help: "Side effects that failed after the grant was persisted",
		},
		[]string{"feature_type", "phase"}, // "apply", "revert"
	)

	// Compatibility scoring
	CompatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compatibility_score",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compatibility_score_cache_lookups_total",
			Help: "Compatibility score cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
