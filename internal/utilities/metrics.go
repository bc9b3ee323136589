package utilities

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learning_history"

// RemoteRequestsTotal counts remote store requests by operation and
// outcome ("ok", "status_<code>" or "transport_error")
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of remote store requests.",
	},
	[]string{"operation", "result"},
)

var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote store requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// RefreshesTotal counts snapshot refreshes by result: "applied", "stale"
// (superseded by a newer refresh) or "failed"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_refreshes_total",
		Help:      "Total number of employee snapshot refreshes.",
	},
	[]string{"result"},
)

var ConsoleRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "console_requests_total",
		Help:      "Total number of console requests.",
	},
	[]string{"route", "method", "code"},
)
