// Package metrics defines and registers the custom Prometheus metrics of the
// marketplace API. It is the single source of truth for metric names, labels
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Marketplace writes ────────────────────────────────────────────────────────

// UsersRegisteredTotal counts new accounts.
// Label:
//   - role: "client" or "freelancer"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// JobsPostedTotal counts jobs posted by clients.
// Label:
//   - category: the job category as submitted (e.g. "graphics_design")
var JobsPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_posted_total",
		Help:      "Total number of jobs posted, by category.",
	},
	[]string{"category"},
)

// JobsDeletedTotal counts jobs removed by their owners.
var JobsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_deleted_total",
		Help:      "Total number of jobs deleted.",
	},
)

// ProposalsCascadedTotal counts proposals removed because their job was deleted.
var ProposalsCascadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_cascade_deleted_total",
		Help:      "Total number of proposals removed by job deletion.",
	},
)

// ProposalsTotal counts proposal writes.
// Label:
//   - action: "submitted", "duplicate" or "withdrawn"
var ProposalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proposals_total",
		Help:      "Total number of proposal writes, by outcome.",
	},
	[]string{"action"},
)

// StoreErrorsTotal counts requests rejected because the record store was down
// or a cascade delete left proposals behind.
// Label:
//   - kind: "unavailable" or "partial_cleanup"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of store-level failures surfaced to callers.",
	},
	[]string{"kind"},
)

// ── Activity dispatch ─────────────────────────────────────────────────────────

// ActivityPublishedTotal counts activity events handed to the publisher.
// Labels:
//   - type: the activity type (e.g. "job.posted")
//   - result: "ok", "error" or "dropped"
var ActivityPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events, by type and delivery result.",
	},
	[]string{"type", "result"},
)

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1")
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityPublishDuration measures how long a single publish takes.
var ActivityPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_publish_duration_seconds",
		Help:      "Duration of publishing one activity event.",
		Buckets:   prometheus.DefBuckets,
	},
)
