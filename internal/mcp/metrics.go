package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// toolCalls counts tool invocations by tool name and outcome.
var toolCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "oicmcp",
		Subsystem: "tools",
		Name:      "calls_total",
		Help:      "Total tools/call invocations by tool and outcome.",
	},
	[]string{"tool", "outcome"},
)

func observeToolCall(tool, outcome string) {
	toolCalls.WithLabelValues(tool, outcome).Inc()
}
