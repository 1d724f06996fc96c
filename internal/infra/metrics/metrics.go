// Package metrics provides Prometheus metrics for Bitewise:
// event throughput, award counts, evaluation latency, and oracle calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Achievement Engine ─────────────────────────────────────────────────────

// EventsProcessed counts evaluated events by action.
var EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bitewise",
	Name:      "events_processed_total",
	Help:      "Total domain events evaluated by the achievement engine.",
}, []string{"action"})

// AwardsTotal counts achievement awards by achievement type.
var AwardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bitewise",
	Name:      "achievement_awards_total",
	Help:      "Total achievements awarded.",
}, []string{"type"})

// EvaluationSeconds tracks one full checkAchievements pass by action.
var EvaluationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "bitewise",
	Name:      "evaluation_seconds",
	Help:      "Achievement evaluation duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"action"})

// StoreErrors counts catalog/progress-store failures seen by the engine.
var StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "bitewise",
	Name:      "store_errors_total",
	Help:      "Total storage failures during achievement evaluation.",
})

// ─── Nutrition ──────────────────────────────────────────────────────────────

// MealsLogged counts logged meals.
var MealsLogged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "bitewise",
	Name:      "meals_logged_total",
	Help:      "Total meals logged.",
})

// AnalyzerSeconds tracks nutrition-oracle round trips by outcome.
var AnalyzerSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "bitewise",
	Name:      "analyzer_seconds",
	Help:      "Nutrition analyzer request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"outcome"})
