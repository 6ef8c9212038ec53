// Package metrics exposes Prometheus metrics for the sync loop and reminders.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OpPush = "push"
	OpPull = "pull"

	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

var (
	// syncOperationsTotal counts sync attempts.
	// Labels:
	//   - op: "push" or "pull"
	//   - status: "success", "failed" or "skipped" (another sync was in flight)
	syncOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_sync_operations_total",
			Help: "Total number of sync operations against the remote store",
		},
		[]string{"op", "status"},
	)

	// syncDuration records how long completed push and pull calls took.
	syncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_sync_duration_seconds",
			Help:    "Duration of sync operations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	remoteChangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_remote_changes_total",
			Help: "Total number of change notifications merged from other devices",
		},
	)

	remindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_reminders_total",
			Help: "Total number of reminders delivered",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(syncOperationsTotal)
	prometheus.MustRegister(syncDuration)
	prometheus.MustRegister(remoteChangesTotal)
	prometheus.MustRegister(remindersTotal)
}

func RecordSync(op, status string) {
	syncOperationsTotal.WithLabelValues(op, status).Inc()
}

func ObserveSyncDuration(op string, seconds float64) {
	syncDuration.WithLabelValues(op).Observe(seconds)
}

func RecordRemoteChange() {
	remoteChangesTotal.Inc()
}

func RecordReminder(kind string) {
	remindersTotal.WithLabelValues(kind).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
