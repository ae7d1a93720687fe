// Package metrics defines and registers all custom Prometheus metrics for the
// inkpad API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inkpad"

// ── Identity metrics ──────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created.",
	},
)

// TokensIssuedTotal counts issued JWTs.
// Label:
//   - kind: "access", "refresh" or "reset"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by kind.",
	},
	[]string{"kind"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetRequestsTotal counts reset requests.
// Label:
//   - result: "sent", "unknown_email", "throttled" or "dropped"
var PasswordResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_requests_total",
		Help:      "Total number of password reset requests, by outcome.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts reset confirmations.
// Label:
//   - result: "success" or "invalid_token"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset confirmations, by result.",
	},
	[]string{"result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// PostsTotal counts blog post mutations.
// Label:
//   - op: "create", "update" or "delete"
var PostsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_total",
		Help:      "Total number of blog post mutations, by operation.",
	},
	[]string{"op"},
)

// TodosTotal counts todo mutations.
// Label:
//   - op: "create", "update" or "delete"
var TodosTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todos_total",
		Help:      "Total number of todo mutations, by operation.",
	},
	[]string{"op"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSentTotal counts delivery attempts made by the mail workers.
// Label:
//   - result: "ok" or "error"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of mail delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailDroppedTotal counts messages rejected because a worker queue was full.
var MailDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dropped_total",
		Help:      "Total number of mail messages dropped because the queue was full.",
	},
)

// MailQueueDepth tracks the current number of messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailSendDuration measures how long a single SMTP delivery takes.
var MailSendDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_send_duration_seconds",
		Help:      "Duration of a single mail delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)
