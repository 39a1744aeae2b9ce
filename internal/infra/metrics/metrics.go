package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// NotificationsDelivered counts successfully delivered notifications by
	// reminder kind and urgency tier.
	NotificationsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Number of notifications successfully handed to a delivery channel.",
	}, []string{"kind", "tier"})

	// NotificationsSuppressed counts sweep decisions that intentionally did
	// not deliver (dedup window, disabled kind, working hours, permission).
	NotificationsSuppressed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_suppressed_total",
		Help: "Number of notifications suppressed before delivery.",
	}, []string{"reason"})

	// SweepDuration observes the wall time of one reminder sweep.
	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_sweep_duration_seconds",
		Help:    "Duration of a full reminder evaluation sweep.",
		Buckets: prometheus.DefBuckets,
	})

	// SweepErrors counts per-task delivery failures inside sweeps.
	SweepErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_sweep_errors_total",
		Help: "Number of per-task errors encountered during sweeps.",
	})
)

func init() {
	prometheus.MustRegister(
		NotificationsDelivered,
		NotificationsSuppressed,
		SweepDuration,
		SweepErrors,
	)
}
