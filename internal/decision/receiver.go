package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// Receiver waits on the passing line for a ball played by the passer and
// collects it, intercepting once the pass is in flight.
type Receiver struct {
	singleID
	outbox
	passerID world.RobotID
	line     geom.Line
}

// NewReceiver builds a receiver for id expecting a pass from passerID
// along line.
func NewReceiver(id, passerID world.RobotID, line geom.Line) *Receiver {
	return &Receiver{singleID: singleID{id: id}, passerID: passerID, line: line}
}

func (r *Receiver) Name() string { return "Receiver" }

// PasserID returns the robot expected to play the pass.
func (r *Receiver) PasserID() world.RobotID { return r.passerID }

func (r *Receiver) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	aw.Clear(r.id)

	robot, ok := w.AlliesBot[r.id]
	if !ok {
		return false
	}
	if _, ok := w.AlliesBot[r.passerID]; !ok {
		return false
	}
	ball := w.Ball
	if ball == nil {
		return false
	}
	tools.AddLine("passing_trajectory", r.line)

	if ball.Velocity2D().Norm() > 1 {
		aw.Push(r.id, intercept(robot, ball))
		return false
	}

	interception := r.line.ClosestPointOnSegment(robot.Pose.Position)
	var dribbler float32
	if interception.DistanceTo(ball.Position2D()) < 0.2 {
		dribbler = 1
	}
	aw.Push(r.id, NewMoveTo(interception, geom.AngleToPoint(robot.Pose.Position, ball.Position2D()), dribbler, false, nil, true))
	return false
}
