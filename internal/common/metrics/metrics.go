package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_reminders_processed_total",
			Help: "Scheduled reminders transitioned to sent by the dispatcher",
		},
		[]string{"type"},
	)

	RemindersFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_reminders_failed_total",
			Help: "Scheduled reminders that failed processing",
		},
		[]string{"type", "reason"},
	)

	RemindersRaceLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_reminders_race_lost_total",
			Help: "Conditional status updates that matched zero rows because another writer won",
		},
	)

	DispatcherTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "dispatcher_tick_duration_seconds",
			Help: "Duration of a dispatcher poll cycle",
		},
	)

	PlansGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_plans_generated_total",
			Help: "Workout plans produced by the generator",
		},
		[]string{"plan_type", "goal"},
	)

	PlanVarietyWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_variety_warnings_total",
			Help: "Generated workouts that fell below the variety ratio floor",
		},
	)

	DeliveriesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_channel_sent_total",
			Help: "Out-of-app notification deliveries by channel",
		},
		[]string{"channel", "status"},
	)
)
