// Package metrics defines and registers all custom Prometheus metrics for
// the game-show tracker. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gameshow"

// --- Attempt metrics ---

// AttemptsRecordedTotal counts attempts appended to the log.
// Labels:
//   - outcome: "correct" or "incorrect"
var AttemptsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_recorded_total",
		Help:      "Total number of attempts appended to the log, by outcome.",
	},
	[]string{"outcome"},
)

// AttemptsErrorsTotal counts attempt recordings that failed.
// Label:
//   - reason: short description of the failure (e.g. "invalid_association", "season_not_found", "append_failed")
var AttemptsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_errors_total",
		Help:      "Total number of attempt recordings that failed, by reason.",
	},
	[]string{"reason"},
)

// AttemptProcessingDuration measures how long one attempt takes from
// dequeue to persistence on the bulk ingest path.
var AttemptProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "attempt_processing_duration_seconds",
		Help:      "Duration of attempt processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// IngestQueueDepth tracks the number of attempts waiting in each ingest
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1")
var IngestQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ingest_queue_depth",
		Help:      "Current number of attempts pending in each ingest worker channel.",
	},
	[]string{"worker_id"},
)

// --- Deck metrics ---

// DeckResetsTotal counts deck resets per season.
var DeckResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deck_resets_total",
		Help:      "Total number of deck resets, by season.",
	},
	[]string{"season_id"},
)

// --- Stats cache metrics ---

// StatsCacheTotal counts season-stats cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of season-stats cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// --- Auth metrics ---

// AuthFailuresTotal counts rejected requests at the auth boundary.
// Label:
//   - kind: "unauthenticated" or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected at the auth boundary, by kind.",
	},
	[]string{"kind"},
)
