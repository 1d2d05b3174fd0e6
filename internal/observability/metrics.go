package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "directory",
		Name:      "users_created_total",
		Help:      "Number of users registered through the directory.",
	})
	entriesAddedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log_engine",
		Name:      "entries_added_total",
		Help:      "Number of exercise entries appended to user logs.",
	})
	logQueriesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log_engine",
		Name:      "log_queries_total",
		Help:      "Number of filtered log queries served.",
	})
	userPersistGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "last_user_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent user upsert written to storage.",
	})
	httpRequestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
)

// RecordUserCreated counts a successful user registration.
func RecordUserCreated() {
	usersCreatedCounter.Inc()
}

// RecordEntryAdded counts a successfully persisted exercise entry.
func RecordEntryAdded() {
	entriesAddedCounter.Inc()
}

// RecordLogQuery counts a served log query.
func RecordLogQuery() {
	logQueriesCounter.Inc()
}

// RecordUserPersisted updates the persistence watermark gauge.
func RecordUserPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	userPersistGauge.Set(float64(ts.Unix()))
}

// RecordHTTPRequest counts one completed HTTP request.
func RecordHTTPRequest(method, route string, status int) {
	httpRequestsCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
