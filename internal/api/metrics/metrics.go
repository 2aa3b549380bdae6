// Package metrics defines the custom Prometheus metrics for the civic report
// API. It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civic"

// IssuesCreatedTotal counts citizen-submitted issue reports.
var IssuesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_created_total",
		Help:      "Total number of issues reported.",
	},
)

// StatusTransitionsTotal counts successful issue status writes.
// Labels:
//   - status: the status value written (e.g. "on process")
//   - role: the caller role that performed the write ("admin" or "user")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issue_status_transitions_total",
		Help:      "Total number of issue status updates, by status and caller role.",
	},
	[]string{"status", "role"},
)

// FeedbackCreatedTotal counts feedback submissions by civic sector.
var FeedbackCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_created_total",
		Help:      "Total number of feedback records submitted, by sector.",
	},
	[]string{"sector"},
)

// LoginsTotal counts successful logins by provider ("password" or "google").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by provider.",
	},
	[]string{"provider"},
)

// ProvisioningFailuresTotal counts admin-provisioning failures by stage.
// Label:
//   - stage: where the flow broke (e.g. "profile_write")
var ProvisioningFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_provisioning_failures_total",
		Help:      "Total number of admin provisioning attempts that failed partway.",
	},
	[]string{"stage"},
)
