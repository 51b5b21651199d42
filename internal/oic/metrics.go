package oic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// upstreamRequests counts HTTP exchanges against the monitoring API,
// labeled by method and response status ("error" for transport failures).
var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "oicmcp",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total HTTP exchanges against the OIC monitoring API.",
	},
	[]string{"method", "status"},
)

func observeUpstream(method, status string) {
	upstreamRequests.WithLabelValues(method, status).Inc()
}
