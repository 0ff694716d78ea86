// Package metrics exposes Prometheus instrumentation for command dispatch and the playback node.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chimera"

// Outcome labels for invocations.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Metrics groups the collectors recorded by the bot.
// A nil *Metrics records nothing.
type Metrics struct {
	// Invocations counts executed commands.
	// Labels: surface (text|interaction), command, outcome (success|failed)
	Invocations *prometheus.CounterVec

	// InvocationDuration measures command execution time in seconds.
	// Labels: surface, command
	InvocationDuration *prometheus.HistogramVec

	// Dropped counts events that never reached a command body.
	// Labels: surface, reason (unknown|throttled|shutdown)
	Dropped *prometheus.CounterVec

	// ComponentClicks counts handled component interactions.
	// Labels: custom_id, outcome
	ComponentClicks *prometheus.CounterVec

	// GatewayLatency is the latest heartbeat round trip in seconds.
	GatewayLatency prometheus.Gauge

	// NodeEvents counts websocket messages received from the playback node.
	// Labels: op
	NodeEvents *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_invocations_total",
			Help:      "Executed commands by surface, command and outcome.",
		}, []string{"surface", "command", "outcome"}),
		InvocationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution time.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"surface", "command"}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Events dropped before reaching a command.",
		}, []string{"surface", "reason"}),
		ComponentClicks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_clicks_total",
			Help:      "Handled component interactions.",
		}, []string{"custom_id", "outcome"}),
		GatewayLatency: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_latency_seconds",
			Help:      "Latest gateway heartbeat latency.",
		}),
		NodeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_events_total",
			Help:      "Messages received from the playback node websocket.",
		}, []string{"op"}),
	}
}

// ObserveInvocation records one finished command.
func (m *Metrics) ObserveInvocation(surface, command string, err error, took time.Duration) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
	}

	m.Invocations.WithLabelValues(surface, command, outcome).Inc()
	m.InvocationDuration.WithLabelValues(surface, command).Observe(took.Seconds())
}

// Drop records an event that was not dispatched.
func (m *Metrics) Drop(surface, reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(surface, reason).Inc()
}

// ObserveComponent records a component click.
func (m *Metrics) ObserveComponent(customID string, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
	}
	m.ComponentClicks.WithLabelValues(customID, outcome).Inc()
}

// SetLatency updates the gateway latency gauge.
func (m *Metrics) SetLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.GatewayLatency.Set(d.Seconds())
}

// NodeEvent records a playback node websocket message.
func (m *Metrics) NodeEvent(op string) {
	if m == nil {
		return
	}
	m.NodeEvents.WithLabelValues(op).Inc()
}
