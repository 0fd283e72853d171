// Package metrics registers the controller's Prometheus instruments.
// Cardinality is bounded everywhere: labels only take values from small
// fixed sets, never robot or packet identifiers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "controller_tick_duration_seconds",
		Help:    "Time spent in one control tick",
		Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.032, 0.064},
	})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "controller_stage_duration_seconds",
		Help:    "Time spent per pipeline stage",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016},
	}, []string{"stage"}) // Bounded: "input", "filter", "decision", "output", "tool"

	visionFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controller_vision_frames_total",
		Help: "Vision detection frames received",
	})

	refereePackets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controller_referee_packets_total",
		Help: "Game controller packets received",
	})

	trackedAllies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controller_tracked_allies",
		Help: "Allied robots currently tracked",
	})

	trackedEnemies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controller_tracked_enemies",
		Help: "Enemy robots currently tracked",
	})

	ballPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controller_ball_present",
		Help: "1 when the ball is tracked, 0 otherwise",
	})

	commandsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controller_commands_sent_total",
		Help: "Robot commands handed to the transport",
	})

	transportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "controller_transport_errors_total",
		Help: "Transport send or feedback errors",
	})

	liveStrategies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controller_live_strategies",
		Help: "Strategies currently owned by the decision manager",
	})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "controller_tool_connections_active",
		Help: "Active observer websocket connections",
	})
)

// RecordTick records one full control tick.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// RecordStage records the duration of one pipeline stage.
// stage must be one of: "input", "filter", "decision", "output", "tool".
func RecordStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordVisionFrame counts a received vision frame.
func RecordVisionFrame() { visionFrames.Inc() }

// RecordRefereePacket counts a received referee packet.
func RecordRefereePacket() { refereePackets.Inc() }

// UpdateTracked updates the tracked entity gauges.
func UpdateTracked(allies, enemies int, ball bool) {
	trackedAllies.Set(float64(allies))
	trackedEnemies.Set(float64(enemies))
	if ball {
		ballPresent.Set(1)
	} else {
		ballPresent.Set(0)
	}
}

// RecordCommands counts commands handed to the transport.
func RecordCommands(n int) { commandsSent.Add(float64(n)) }

// RecordTransportError counts one transport failure.
func RecordTransportError() { transportErrors.Inc() }

// UpdateStrategies updates the live strategy gauge.
func UpdateStrategies(n int) { liveStrategies.Set(float64(n)) }

// UpdateToolConnections updates the observer connection gauge.
func UpdateToolConnections(n int) { wsConnections.Set(float64(n)) }
