package connection

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrations_connection_checks_total",
			Help: "连通性检查次数，按结果区分",
		},
		[]string{"status"},
	)

	checkDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "integrations_connection_check_duration_seconds",
			Help:    "连通性检查耗时（秒）",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(checksTotal)
	prometheus.MustRegister(checkDuration)
}

func observe(r Result) {
	checksTotal.WithLabelValues(string(r.Status)).Inc()
	checkDuration.Observe(float64(r.LatencyMs) / 1000)
}
