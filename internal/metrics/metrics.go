package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	TasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "Tasks created through the HTTP form",
		},
	)
	ListDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_list_degraded_total",
			Help: "Task list renders served without data because the database failed",
		},
	)
	ConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_db_connect_attempts_total",
			Help: "Database liveness attempts during bootstrap",
		},
		[]string{"result"},
	)
	BootstrapSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskboard_bootstrap_success",
			Help: "1 when the last database bootstrap succeeded, 0 otherwise",
		},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		TasksCreated,
		ListDegraded,
		ConnectAttempts,
		BootstrapSuccess,
		RLRequests,
		RLBlocked,
	)
}
