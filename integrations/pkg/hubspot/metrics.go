package hubspot

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "integrations_hubspot_requests_total",
		Help: "HubSpot 集成操作次数",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func record(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
}
