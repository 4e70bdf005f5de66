package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// InboundEvents counts classified inbound updates by kind
	InboundEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "bridge",
			Name:      "inbound_events_total",
			Help:      "Total number of inbound updates by classified kind",
		},
		[]string{"kind"},
	)

	// PipelineOutcomes counts how private messages left the relay pipeline
	PipelineOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "bridge",
			Name:      "pipeline_outcomes_total",
			Help:      "Total number of private messages by pipeline outcome",
		},
		[]string{"outcome"},
	)

	// OutboundFailures counts failed outbound platform calls by method
	OutboundFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "bridge",
			Name:      "outbound_failures_total",
			Help:      "Total number of failed outbound calls by method",
		},
		[]string{"method"},
	)

	// HandlerPanics counts panics recovered at the event boundary
	HandlerPanics = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "bridge",
			Name:      "handler_panics_total",
			Help:      "Total number of panics recovered while handling an event",
		},
	)
)

var registerOnce sync.Once

func init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(InboundEvents, PipelineOutcomes, OutboundFailures, HandlerPanics)
	})
}
