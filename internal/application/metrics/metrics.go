package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the application lifecycle.
type Metrics struct {
	Submitted            prometheus.Counter
	Approved             prometheus.Counter
	Rejected             prometheus.Counter
	ReviewConflicts      prometheus.Counter
	NotificationFailures prometheus.Counter
}

// New creates and registers all lifecycle metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Submitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_applications_submitted_total",
			Help: "Total number of whitelist applications submitted",
		}),
		Approved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_applications_approved_total",
			Help: "Total number of whitelist applications approved",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_applications_rejected_total",
			Help: "Total number of whitelist applications rejected",
		}),
		ReviewConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_review_conflicts_total",
			Help: "Review attempts that lost to an earlier decision",
		}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "whitelist_notification_failures_total",
			Help: "Best-effort notifications that failed after a committed transition",
		}),
	}
}
