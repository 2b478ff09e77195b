// Package metrics exposes Prometheus collectors for goal and habit activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GoalsCreated counts created goals by hierarchy level
	GoalsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keystone_goals_created_total",
		Help: "Goals created, by hierarchy level",
	}, []string{"level"})

	// GoalStatusChanges counts status updates by target status
	GoalStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keystone_goal_status_changes_total",
		Help: "Goal status changes, by new status",
	}, []string{"status"})

	// GoalRejections counts refused goal mutations by reason
	GoalRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keystone_goal_rejections_total",
		Help: "Goal mutations rejected by hierarchy, status or deletion rules",
	}, []string{"operation", "kind"})

	// HabitCompletions counts completion attempts by result
	HabitCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keystone_habit_completions_total",
		Help: "Habit completion attempts, by result (recorded, duplicate, duplicate_race)",
	}, []string{"result"})

	// HTTPRequestDuration tracks request latency by route and status
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keystone_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	}, []string{"method", "route", "status"})
)

const (
	CompletionRecorded      = "recorded"
	CompletionDuplicate     = "duplicate"
	CompletionDuplicateRace = "duplicate_race"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
