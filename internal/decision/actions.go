package decision

import (
	"math"

	"sslcoach/internal/command"
	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

const (
	// goBehindBallDist is how far behind the ball a shooter lines up.
	goBehindBallDist = 0.3
	// shootKickPower is the flat kick power used for shots on goal.
	shootKickPower = 4.0
	// shootDribbler holds the ball on the approach; units match the
	// base station's dribbler scaling.
	shootDribbler = 200.0
)

// intercept returns the intent that puts the robot on the ball's path.
// A slow ball is simply collected.
func intercept(robot *world.Robot[world.AllyInfo], ball *world.Ball) MoveTo {
	ballPos := ball.Position2D()
	if ball.Velocity2D().Norm() < 0.4 {
		return NewMoveTo(ballPos, robot.Pose.Orientation, 0, false, nil, true)
	}
	trajectory := geom.NewLine(ballPos, ballPos.Add(ball.Velocity2D().Normalize().Scale(100)))
	target := trajectory.ClosestPointOnLine(robot.Pose.Position)
	var dribbler float32
	if robot.Distance(ballPos) < 0.2 {
		dribbler = 1
	}
	return NewMoveTo(target, geom.AngleToPoint(robot.Pose.Position, ballPos), dribbler, false, nil, true)
}

// shoot aligns the robot behind the ball toward target and kicks once the
// forward ray crosses the enemy goal. The dribbler spins up inside 1 m and
// releases for the kick itself.
func shoot(robot *world.Robot[world.AllyInfo], ball *world.Ball, target geom.Vec2, w *world.World) MoveTo {
	robotPos := robot.Pose.Position
	robotDir := geom.VectorFromAngle(robot.Pose.Orientation)
	ballPos := ball.Position2D()
	robotToBall := ballPos.Sub(robotPos)
	dotWithBall := robotDir.Normalize().Dot(robotToBall.Normalize())
	distToBall := robotToBall.Norm()

	shootingTrajectory := geom.NewLine(robotPos, robotPos.Add(robotDir.Scale(100)))
	_, err := shootingTrajectory.IntersectionSegments(w.Geometry.EnemyGoal.Line)
	trajectoryWillScore := err == nil

	var dribbler float32
	if distToBall < 1 {
		dribbler = shootDribbler
	}

	contactDist := w.Geometry.RobotRadius + w.Geometry.BallRadius + 0.002
	if trajectoryWillScore && dotWithBall > 0.95 {
		var kick *command.Kick
		if distToBall < contactDist {
			dribbler = 0
			kick = &command.Kick{Kind: command.KickFlat, Power: shootKickPower}
		}
		return NewMoveTo(ballPos, geom.AngleToPoint(robotPos, target), dribbler, true, kick, true)
	}

	// Not lined up: either slide along the goal-ball line, or when on the
	// wrong side of the ball, swing behind it first.
	goalToBall := ball.Position2D().Sub(target)
	robotFromBall := robotPos.Sub(ballPos)
	correction := geom.NewLine(target, ballPos).ClosestPointOnLine(robotPos)
	if dotWithBall < 0.5 || goalToBall.Normalize().Neg().Dot(robotFromBall.Normalize()) > 0 {
		correction = ballPos.Add(goalToBall.Normalize().Scale(goBehindBallDist))
	}
	return NewMoveTo(correction, geom.AngleToPoint(robotPos, target), dribbler, false, nil, true)
}

// moveAway pushes the robot radially off from until it clears dist.
// Returns false when the robot is already clear.
func moveAway(pos, from geom.Vec2, keepOrientation float64, dist float64) (MoveTo, bool) {
	offset := pos.Sub(from)
	if offset.Norm() >= dist {
		return MoveTo{}, false
	}
	dir := offset.Normalize()
	if dir.Norm() == 0 {
		dir = geom.Vec2{X: 1}
	}
	return NewMoveTo(from.Add(dir.Scale(dist)), keepOrientation, 0, false, nil, true), true
}

// openShootWindows clips the enemy goal segment by the shadow each enemy
// casts from shootStart, returning the sub-segments still open. The result
// is pairwise disjoint and covered by the goal segment.
func openShootWindows(shootStart geom.Vec2, w *world.World) []geom.Line {
	targets := []geom.Line{w.Geometry.EnemyGoal.Line}
	margin := w.Geometry.RobotRadius + w.Geometry.BallRadius + 0.01

	for _, enemy := range w.EnemiesBot.Values() {
		toEnemy := enemy.Pose.Position.Sub(shootStart)
		if toEnemy.Norm() == 0 {
			continue
		}
		perp := geom.RotateVector(toEnemy.Normalize(), math.Pi/2).Scale(margin)
		dirLeft := enemy.Pose.Position.Add(perp).Sub(shootStart)
		dirRight := enemy.Pose.Position.Sub(perp).Sub(shootStart)
		toLeft := geom.NewLine(shootStart, shootStart.Add(dirLeft.Scale(100)))
		toRight := geom.NewLine(shootStart, shootStart.Add(dirRight.Scale(100)))

		left, errL := toLeft.IntersectionSegmentLine(w.Geometry.EnemyGoal.Line)
		if errL != nil {
			continue
		}
		right, errR := toRight.IntersectionSegmentLine(w.Geometry.EnemyGoal.Line)
		if errR != nil {
			continue
		}
		shadow := geom.NewLine(left, right)
		var remaining []geom.Line
		for _, t := range targets {
			remaining = append(remaining, t.CutOffSegment(shadow)...)
		}
		targets = remaining
	}
	return targets
}

// longestWindow returns the window with the largest norm; ties keep the
// first occurrence so the choice is deterministic.
func longestWindow(windows []geom.Line) (geom.Line, bool) {
	if len(windows) == 0 {
		return geom.Line{}, false
	}
	best := windows[0]
	for _, wnd := range windows[1:] {
		if wnd.Norm() > best.Norm() {
			best = wnd
		}
	}
	return best, true
}

// ObjectInBotTrajectory lists the obstacles sitting within one robot
// diameter of the straight path from the robot to target. Strategies use
// it to rule out blocked runs before committing to them.
func ObjectInBotTrajectory(w *world.World, selfID world.RobotID, target geom.Vec2, includeBall, includeAllies, includeEnemies bool) []geom.Vec2 {
	robot, ok := w.AlliesBot[selfID]
	if !ok {
		return nil
	}
	path := geom.NewLine(robot.Pose.Position, target)
	clearance := 2 * w.Geometry.RobotRadius

	var obstacles []geom.Vec2
	if includeAllies {
		for _, ally := range w.AlliesBot.Values() {
			if ally.ID == selfID {
				continue
			}
			if path.DistanceToPoint(ally.Pose.Position) < clearance {
				obstacles = append(obstacles, ally.Pose.Position)
			}
		}
	}
	if includeEnemies {
		for _, enemy := range w.EnemiesBot.Values() {
			if path.DistanceToPoint(enemy.Pose.Position) < clearance {
				obstacles = append(obstacles, enemy.Pose.Position)
			}
		}
	}
	if includeBall && w.Ball != nil {
		if path.DistanceToPoint(w.Ball.Position2D()) < w.Geometry.RobotRadius+w.Geometry.BallRadius {
			obstacles = append(obstacles, w.Ball.Position2D())
		}
	}
	return obstacles
}
