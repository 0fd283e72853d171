package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// wallDistFromGoal is how far in front of the goal line the wall stands.
const wallDistFromGoal = 0.7

// DefenseWall lines up to two robots across the goal-to-ball axis,
// wallDistFromGoal in front of the ally goal line.
type DefenseWall struct {
	multiID
	outbox
}

// NewDefenseWall builds a wall owning ids (at most two are positioned).
func NewDefenseWall(ids []world.RobotID) *DefenseWall {
	return &DefenseWall{multiID: multiID{ids: ids}}
}

func (d *DefenseWall) Name() string { return "DefenseWall" }

func (d *DefenseWall) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	for _, id := range d.ids {
		aw.Clear(id)
	}
	ball := w.Ball
	if ball == nil {
		return false
	}
	ballPos := ball.Position2D()
	goalCenter := w.Geometry.AllyGoal.Center()

	axis := ballPos.Sub(goalCenter).Normalize()
	if axis.Norm() == 0 {
		axis = geom.Vec2{X: 1}
	}
	base := goalCenter.Add(axis.Scale(wallDistFromGoal))
	perp := axis.Perp()
	spacing := w.Geometry.RobotRadius

	// With one robot, stand on the axis; with two, straddle it.
	offsets := []float64{0}
	if len(d.ids) >= 2 {
		offsets = []float64{spacing, -spacing}
	}

	for i, id := range d.ids {
		if i >= len(offsets) {
			break
		}
		robot, ok := w.AlliesBot[id]
		if !ok {
			continue
		}
		slot := base.Add(perp.Scale(offsets[i]))
		aw.Push(id, NewMoveTo(slot, geom.AngleToPoint(robot.Pose.Position, ballPos), 0, false, nil, false))
	}
	return false
}
