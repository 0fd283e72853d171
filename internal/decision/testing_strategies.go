package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// sideTargetTolerance is how close counts as arrived for the side runs.
const sideTargetTolerance = 0.1

// GoLeft sends the robot to the left touch line side. Bring-up strategy.
type GoLeft struct {
	singleID
	outbox
}

// NewGoLeft builds a GoLeft for id.
func NewGoLeft(id world.RobotID) *GoLeft { return &GoLeft{singleID: singleID{id: id}} }

func (g *GoLeft) Name() string { return "GoLeft" }

func (g *GoLeft) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	return stepSideRun(g.id, w, aw, w.Geometry.FieldWidth/4)
}

// GoRight sends the robot to the right touch line side. Bring-up strategy.
type GoRight struct {
	singleID
	outbox
}

// NewGoRight builds a GoRight for id.
func NewGoRight(id world.RobotID) *GoRight { return &GoRight{singleID: singleID{id: id}} }

func (g *GoRight) Name() string { return "GoRight" }

func (g *GoRight) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	return stepSideRun(g.id, w, aw, -w.Geometry.FieldWidth/4)
}

func stepSideRun(id world.RobotID, w *world.World, aw *ActionWrapper, targetY float64) bool {
	aw.Clear(id)
	robot, ok := w.AlliesBot[id]
	if !ok {
		return false
	}
	target := geom.Vec2{X: robot.Pose.Position.X, Y: targetY}
	if robot.Distance(target) < sideTargetTolerance {
		return true
	}
	aw.Push(id, NewMoveTo(target, robot.Pose.Orientation, 0, false, nil, true))
	return false
}

// Aligned parks its robots on a shared vertical line in our half, evenly
// spaced. Robots join it through the WantToBeAligned message.
type Aligned struct {
	multiID
	outbox
}

// NewAligned builds an Aligned formation owning ids.
func NewAligned(ids []world.RobotID) *Aligned { return &Aligned{multiID: multiID{ids: ids}} }

func (a *Aligned) Name() string { return "Aligned" }

func (a *Aligned) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	lineX := -w.Geometry.FieldLength / 4
	spacing := 4 * w.Geometry.RobotRadius
	for i, id := range a.ids {
		aw.Clear(id)
		robot, ok := w.AlliesBot[id]
		if !ok {
			continue
		}
		slot := geom.Vec2{X: lineX, Y: (float64(i) - float64(len(a.ids)-1)/2) * spacing}
		aw.Push(id, NewMoveTo(slot, robot.Pose.Orientation, 0, false, nil, true))
	}
	return false
}
