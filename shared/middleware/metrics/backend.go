package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Calls made to the backend API by operation and status",
		},
		[]string{"op", "status"},
	)

	apiCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Backend API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	queryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_cache_lookups_total",
			Help:      "Query cache lookups by result (hit, miss, shared)",
		},
		[]string{"result"},
	)
)

// ObserveAPICall records one backend call. Status 0 means the request never
// produced a response.
func ObserveAPICall(op string, status int, took time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	apiCallsTotal.WithLabelValues(op, label).Inc()
	apiCallDuration.WithLabelValues(op).Observe(took.Seconds())
}

func ObserveCacheLookup(result string) {
	queryCacheLookups.WithLabelValues(result).Inc()
}
