// Package metrics defines and registers all custom Prometheus metrics for the
// Taskly API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed on /metrics alongside the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskly"

// ── Directory / registry metrics ──────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// TasksCreatedTotal counts newly created tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// TaskStatusChangesTotal counts status transitions.
// Label:
//   - status: the new task status ("pending", "completed")
var TaskStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_status_changes_total",
		Help:      "Total number of task status transitions, by new status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsCreatedTotal counts notifications appended to the feed.
// Label:
//   - type: notification type (e.g. "welcome", "task_due")
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created, by type.",
	},
	[]string{"type"},
)

// RemindersSuppressedTotal counts reminders skipped because they were already sent.
var RemindersSuppressedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_suppressed_total",
		Help:      "Total number of due/overdue/summary reminders skipped as repeats.",
	},
	[]string{"type"},
)

// JobDuration measures one run of a scheduled job.
// Label:
//   - job: job name ("due_scan", "daily_summary")
var JobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled job runs.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"job"},
)

// ── Infrastructure metrics ────────────────────────────────────────────────────

// SnapshotSavesTotal counts snapshot writes.
// Label:
//   - result: "ok" or "error"
var SnapshotSavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_saves_total",
		Help:      "Total number of snapshot saves, labelled by result.",
	},
	[]string{"result"},
)

// MailDeliveriesTotal counts outbound e-mail attempts.
// Label:
//   - result: "sent", "failed" or "dropped"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of outbound e-mails, labelled by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks e-mails waiting for a delivery worker.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of e-mails pending delivery.",
	},
)
