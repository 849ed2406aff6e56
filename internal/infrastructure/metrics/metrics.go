// Package metrics defines and registers all custom Prometheus metrics for the
// Q&A API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qa"

// ── Failure metrics ───────────────────────────────────────────────────────────

// ErrorsTotal counts failures rendered by the HTTP error handler.
// Label:
//   - kind: the failure kind (e.g. "wrong_password", "moderation_server")
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of failed requests, by failure kind.",
	},
	[]string{"kind"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok" or the failure kind
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Moderation metrics ────────────────────────────────────────────────────────

// ModerationRequestsTotal counts calls to the moderation provider.
// Label:
//   - result: "ok", "transport", "client" or "server"
var ModerationRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_requests_total",
		Help:      "Total number of moderation provider calls, by outcome.",
	},
	[]string{"result"},
)

// ModerationDuration measures the round trip to the moderation provider.
var ModerationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "moderation_duration_seconds",
		Help:      "Duration of moderation provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ModerationCacheTotal counts verdict cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var ModerationCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_cache_total",
		Help:      "Total number of moderation verdict cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// QuestionsCreatedTotal counts questions accepted after moderation.
var QuestionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questions_created_total",
		Help:      "Total number of questions created.",
	},
)

// AnswersCreatedTotal counts answers accepted after moderation.
var AnswersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_created_total",
		Help:      "Total number of answers created.",
	},
)
