// Package decision is the tactical core: a manager that partitions the
// allied robots into strategies each tick and collects the motion intents
// they emit into a per-robot action buffer.
package decision

import (
	"sslcoach/internal/command"
	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// Action is a high-level motion intent for one robot.
type Action interface {
	isAction()
}

// MoveTo asks the trajectory follower to bring the robot to a target pose,
// with the kicker and dribbler states to hold while doing so.
type MoveTo struct {
	Target      geom.Vec2
	Orientation float64
	Dribbler    float32
	Charge      bool
	Kick        *command.Kick
	// AvoidObstacles asks the follower to route around other robots.
	AvoidObstacles bool
}

func (MoveTo) isAction() {}

// NewMoveTo builds a MoveTo intent.
func NewMoveTo(target geom.Vec2, orientation float64, dribbler float32, charge bool, kick *command.Kick, avoid bool) MoveTo {
	return MoveTo{
		Target:         target,
		Orientation:    orientation,
		Dribbler:       dribbler,
		Charge:         charge,
		Kick:           kick,
		AvoidObstacles: avoid,
	}
}

// RawOrder bypasses the follower and carries a ready-made command.
type RawOrder struct {
	Command command.Command
}

func (RawOrder) isAction() {}

// ActionWrapper buffers at most a short queue of intents per robot for the
// current tick. Strategies clear their robot's queue before pushing so one
// intent per robot per tick is the steady state.
type ActionWrapper struct {
	actions map[world.RobotID][]Action
}

// NewActionWrapper returns an empty buffer.
func NewActionWrapper() *ActionWrapper {
	return &ActionWrapper{actions: make(map[world.RobotID][]Action)}
}

// Clear drops all intents queued for id.
func (w *ActionWrapper) Clear(id world.RobotID) {
	delete(w.actions, id)
}

// ClearAll drops every queued intent.
func (w *ActionWrapper) ClearAll() {
	w.actions = make(map[world.RobotID][]Action)
}

// Push queues an intent for id.
func (w *ActionWrapper) Push(id world.RobotID, a Action) {
	w.actions[id] = append(w.actions[id], a)
}

// Head returns the first queued intent for id, if any.
func (w *ActionWrapper) Head(id world.RobotID) (Action, bool) {
	q := w.actions[id]
	if len(q) == 0 {
		return nil, false
	}
	return q[0], true
}

// IDs returns every robot with at least one queued intent.
func (w *ActionWrapper) IDs() []world.RobotID {
	out := make([]world.RobotID, 0, len(w.actions))
	for id := range w.actions {
		out = append(out, id)
	}
	return out
}
