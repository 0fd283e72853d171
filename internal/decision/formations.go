package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// MoveAwayBallPlacement clears the corridor between the ball and the
// placement target while the opponent places the ball. The keep-away
// distance comes from the referee orders.
type MoveAwayBallPlacement struct {
	multiID
	outbox
	target geom.Vec2
}

// NewMoveAwayBallPlacement builds the formation for ids with the
// designated placement position.
func NewMoveAwayBallPlacement(ids []world.RobotID, target geom.Vec2) *MoveAwayBallPlacement {
	return &MoveAwayBallPlacement{multiID: multiID{ids: ids}, target: target}
}

func (m *MoveAwayBallPlacement) Name() string { return "MoveAwayBallPlacement" }

func (m *MoveAwayBallPlacement) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	ball := w.Ball
	if ball == nil {
		return false
	}
	keepAway := w.RefOrders.MinDistFromBall
	if keepAway == 0 {
		keepAway = world.MinDistFromBallStopped
	}
	corridor := geom.NewLine(ball.Position2D(), m.target)
	tools.AddLine("placement_corridor", corridor)

	for _, id := range m.ids {
		aw.Clear(id)
		robot, ok := w.AlliesBot[id]
		if !ok {
			continue
		}
		closest := corridor.ClosestPointOnSegment(robot.Pose.Position)
		if mv, need := moveAway(robot.Pose.Position, closest, robot.Pose.Orientation, keepAway); need {
			aw.Push(id, mv)
		}
	}
	return false
}

// PrepareKickOff arranges the team for a kickoff: the taker behind the
// ball when the kickoff is ours, everyone else spread on our half outside
// the center circle.
type PrepareKickOff struct {
	multiID
	outbox
	ally bool
}

// NewPrepareKickOff builds the formation; ally says whether we take the
// kickoff.
func NewPrepareKickOff(ids []world.RobotID, ally bool) *PrepareKickOff {
	return &PrepareKickOff{multiID: multiID{ids: ids}, ally: ally}
}

func (p *PrepareKickOff) Name() string { return "PrepareKickOff" }

func (p *PrepareKickOff) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	ballPos := geom.Vec2{}
	if w.Ball != nil {
		ballPos = w.Ball.Position2D()
	}

	margin := w.Geometry.Center.Radius + 2*w.Geometry.RobotRadius
	taker := -1
	if p.ally && len(p.ids) > 0 {
		// Closest owned robot takes the kickoff.
		bestDist := 0.0
		for i, id := range p.ids {
			robot, ok := w.AlliesBot[id]
			if !ok {
				continue
			}
			d := robot.Distance(ballPos)
			if taker < 0 || d < bestDist {
				taker, bestDist = i, d
			}
		}
	}

	slot := 0
	for i, id := range p.ids {
		aw.Clear(id)
		robot, ok := w.AlliesBot[id]
		if !ok {
			continue
		}
		var target geom.Vec2
		if i == taker {
			target = geom.Vec2{X: ballPos.X - goBehindBallDist, Y: ballPos.Y}
		} else {
			target = geom.Vec2{X: -margin - 0.5, Y: (float64(slot) - 1) * 1.0}
			slot++
		}
		aw.Push(id, NewMoveTo(target, geom.AngleToPoint(target, ballPos), 0, false, nil, true))
	}
	return false
}
