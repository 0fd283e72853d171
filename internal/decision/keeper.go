package decision

import (
	"sslcoach/internal/command"
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// GoalKeeper holds the goal line at the intercept of the ball's trajectory
// with the goal segment and clears the ball when it gets into contact
// range outside the penalty area exclusion.
type GoalKeeper struct {
	singleID
	outbox
}

// NewGoalKeeper pins the keeper strategy to id.
func NewGoalKeeper(id world.RobotID) *GoalKeeper {
	return &GoalKeeper{singleID: singleID{id: id}}
}

func (g *GoalKeeper) Name() string { return "GoalKeeper" }

func (g *GoalKeeper) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	aw.Clear(g.id)

	robot, ok := w.AlliesBot[g.id]
	if !ok {
		return false
	}
	ball := w.Ball
	if ball == nil {
		return false
	}
	ballPos := ball.Position2D()
	goal := w.Geometry.AllyGoal.Line

	// Guard point: where the ball's trajectory crosses the goal line, or
	// the projection of the ball when it is slow.
	target := goal.ClosestPointOnSegment(ballPos)
	if ball.Velocity2D().Norm() > 0.4 {
		trajectory := geom.NewLine(ballPos, ballPos.Add(ball.Velocity2D().Normalize().Scale(100)))
		if hit, err := trajectory.IntersectionSegmentLine(goal); err == nil {
			target = goal.ClosestPointOnSegment(hit)
		}
	}
	tools.AddPoint("keeper_guard", target)

	// Clear the ball when it reaches contact range, kicking away from the
	// penalty area rather than into it.
	contactDist := w.Geometry.RobotRadius + w.Geometry.BallRadius
	if robot.Distance(ballPos) < contactDist+0.01 {
		clearTarget := geom.Vec2{X: 0, Y: ballPos.Y}
		heading := robot.Pose.Position.Add(geom.VectorFromAngle(robot.Pose.Orientation))
		var kick *command.Kick
		if !w.Geometry.AllyPenalty.Contains(heading) {
			kick = &command.Kick{Kind: command.KickFlat, Power: shootKickPower}
		}
		aw.Push(g.id, NewMoveTo(ballPos, geom.AngleToPoint(robot.Pose.Position, clearTarget), 0, true, kick, false))
		return false
	}

	aw.Push(g.id, NewMoveTo(target, geom.AngleToPoint(robot.Pose.Position, ballPos), 0, false, nil, false))
	return false
}
