// Package system wires the four pipeline stages into the 16 ms control
// loop: Input -> Filter -> Decision -> Output, with the tool stage off the
// critical path at the end of each tick.
package system

import (
	"sync/atomic"
	"time"

	"sslcoach/internal/decision"
	"sslcoach/internal/filter"
	"sslcoach/internal/input"
	"sslcoach/internal/metrics"
	"sslcoach/internal/output"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/tool"
	"sslcoach/internal/toolserver"
	"sslcoach/internal/world"
)

// TickPeriod is the nominal control period.
const TickPeriod = 16 * time.Millisecond

// System owns the world and the stages. Single-threaded: every stage runs
// to completion inside the tick; only receivers and the observer hub live
// on other goroutines.
type System struct {
	input    *input.Pipeline
	filter   *filter.Pipeline
	manager  decision.Manager
	executor *output.Executor
	tools    *toolserver.Server

	world *world.World
	// stopRequested flips once; a Stop that races Run still wins.
	stopRequested atomic.Bool

	// feedback from the previous tick's transport exchange, merged into
	// the next inbound bundle.
	pendingFeedback map[world.RobotID]input.Feedback
}

// New assembles a system.
func New(in *input.Pipeline, fl *filter.Pipeline, manager decision.Manager, exec *output.Executor, tools *toolserver.Server, w *world.World) *System {
	return &System{
		input:    in,
		filter:   fl,
		manager:  manager,
		executor: exec,
		tools:    tools,
		world:    w,
	}
}

// Stop asks the loop to exit after the current tick. Safe from any
// goroutine (the Ctrl-C handler calls it).
func (s *System) Stop() { s.stopRequested.Store(true) }

// Run drives the loop until Stop. The tail sleep is the only intentional
// suspension per tick.
func (s *System) Run(period time.Duration) {
	telemetry.Infof("control loop started, period %s", period)

	for !s.stopRequested.Load() {
		tickStart := time.Now()

		stageStart := tickStart
		bundle := s.input.Step()
		for id, fb := range s.pendingFeedback {
			bundle.Feedback[id] = fb
		}
		s.pendingFeedback = nil
		metrics.RecordStage("input", time.Since(stageStart))

		stageStart = time.Now()
		s.filter.Step(bundle, s.world)
		metrics.RecordStage("filter", time.Since(stageStart))

		stageStart = time.Now()
		tools := tool.NewData()
		aw := decision.NewActionWrapper()
		s.manager.Step(s.world, tools, aw)
		metrics.RecordStage("decision", time.Since(stageStart))

		stageStart = time.Now()
		s.pendingFeedback = s.executor.Step(s.world, aw)
		metrics.RecordStage("output", time.Since(stageStart))

		stageStart = time.Now()
		s.tools.Step(s.world.Snapshot(), tools)
		metrics.RecordStage("tool", time.Since(stageStart))

		elapsed := time.Since(tickStart)
		metrics.RecordTick(elapsed)
		if elapsed < period {
			time.Sleep(period - elapsed)
		}
	}
	telemetry.Infof("control loop stopped")
}

// Close releases every stage. Idempotent; each stage guards its own
// handles.
func (s *System) Close() {
	s.input.Close()
	s.filter.Close()
	s.executor.Close()
	s.tools.Close()
}
