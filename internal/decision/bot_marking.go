package decision

import (
	"math"

	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

const (
	distanceFromAttacker       = 0.5
	markingInaccuracy          = 0.01
	distanceFromGoalTrajectory = 0.25
)

// BotMarking shadows one enemy: it sits between the enemy and the ball,
// keeps out of our attacker's shooting cone, and switches to interception
// when a pass toward its mark is in flight.
type BotMarking struct {
	singleID
	outbox
	enemyID world.RobotID
}

// NewBotMarking marks enemyID with robot id.
func NewBotMarking(id, enemyID world.RobotID) *BotMarking {
	return &BotMarking{singleID: singleID{id: id}, enemyID: enemyID}
}

func (b *BotMarking) Name() string { return "BotMarking" }

// EnemyID returns the marked opponent.
func (b *BotMarking) EnemyID() world.RobotID { return b.enemyID }

func (b *BotMarking) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	aw.Clear(b.id)

	ball := w.Ball
	if ball == nil {
		return false
	}
	ballPos := ball.Position2D()
	robot, ok := w.AlliesBot[b.id]
	if !ok {
		return false
	}
	enemy, ok := w.EnemiesBot[b.enemyID]
	if !ok {
		return false
	}
	attacker := world.ClosestRobot(w.AlliesBot.Values(), ballPos)
	if attacker == nil {
		return false
	}

	var dribbler float32
	if robot.Distance(ballPos) < 1 {
		dribbler = 1
	}
	angle := geom.AngleToPoint(robot.Pose.Position, ballPos)

	// A fast ball headed near the mark (or near us) that is not a shot on
	// the enemy goal is a pass to break up.
	if ball.Velocity2D().Norm() > 0.4 {
		trajectory := geom.NewLine(ballPos, ballPos.Add(ball.Velocity2D().Normalize().Scale(100)))
		_, err := w.Geometry.EnemyGoal.Line.IntersectionSegments(trajectory)
		intersectsGoal := err == nil
		if !intersectsGoal &&
			(trajectory.DistanceToPoint(enemy.Pose.Position) < 1 || trajectory.DistanceToPoint(robot.Pose.Position) < 1) {
			target := trajectory.ClosestPointOnSegment(robot.Pose.Position)
			aw.Push(b.id, NewMoveTo(target, angle, dribbler, false, nil, true))
			return false
		}
	}

	enemyToBall := ballPos.Sub(enemy.Pose.Position)
	enemyBallDist := enemyToBall.Norm()
	if enemyBallDist == 0 {
		return false
	}
	standoff := w.Geometry.RobotRadius + 0.2/enemyBallDist
	target := enemy.Pose.Position.Add(enemyToBall.Normalize().Scale(standoff))

	if attacker.ID != b.id {
		// Never crowd the attacker.
		if attacker.Distance(target) < distanceFromAttacker+w.Geometry.RobotRadius {
			away := target.Sub(attacker.Pose.Position).Normalize()
			target = attacker.Pose.Position.Add(away.Scale(distanceFromAttacker + w.Geometry.RobotRadius))
		}

		// Stay out of the attacker-to-goal cone: the target is inside it
		// when it sits between the two edge lines.
		toStart := geom.NewLine(attacker.Pose.Position, w.Geometry.EnemyGoal.Line.Start)
		toEnd := geom.NewLine(attacker.Pose.Position, w.Geometry.EnemyGoal.Line.End)
		closestStart := toStart.ClosestPointOnSegment(target)
		closestEnd := toEnd.ClosestPointOnSegment(target)
		distStart := target.DistanceTo(closestStart)
		distEnd := target.DistanceTo(closestEnd)
		distStartEnd := closestStart.DistanceTo(closestEnd)
		if math.Abs(distStart+distEnd-distStartEnd) < markingInaccuracy {
			if distStart < distEnd {
				target.Y += distanceFromGoalTrajectory
			} else {
				target.Y -= distanceFromGoalTrajectory
			}
		}
	}

	aw.Push(b.id, NewMoveTo(target, angle, dribbler, false, nil, true))
	return false
}
