package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// turnsTotal counts finished logging turns.
	// Labels: category (logged, no_task, ambiguous_task, ambiguous_day,
	// ambiguous_duration, unavailable, reauth, retry_later)
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "worklog",
		Name:      "turns_total",
		Help:      "Logging turns by terminal category",
	}, []string{"category"})

	// defaultsTotal counts fields filled in because the message omitted them.
	// Labels: field (day, duration)
	defaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "worklog",
		Name:      "defaults_total",
		Help:      "Fields defaulted because the message did not name them",
	}, []string{"field"})

	// callSeconds measures collaborator calls.
	// Labels: call (authorize, submit), result (ok, error)
	callSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tally",
		Subsystem: "collaborator",
		Name:      "call_seconds",
		Help:      "Latency of authorization and submission calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"call", "result"})
)

// RecordTurn records the terminal category of one turn.
func RecordTurn(category string) {
	turnsTotal.WithLabelValues(category).Inc()
}

// RecordDefault records a defaulted field.
func RecordDefault(field string) {
	defaultsTotal.WithLabelValues(field).Inc()
}

// RecordCall records one collaborator call started at start.
func RecordCall(call string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	callSeconds.WithLabelValues(call, result).Observe(time.Since(start).Seconds())
}
