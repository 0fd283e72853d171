package decision

import (
	"fmt"

	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// attackerState is the attacker's sub-state, exposed for the observer.
type attackerState uint8

const (
	placeForShoot attackerState = iota
	shooting
)

// Attacker drives the robot carrying the attack: it lines up on the widest
// open window of the enemy goal, falls back to a pass when every window is
// shadowed, and chases down balls rolling back toward our half.
type Attacker struct {
	singleID
	outbox
	state    attackerState
	receiver *world.RobotID
}

// NewAttacker builds an attacker for id.
func NewAttacker(id world.RobotID) *Attacker {
	return &Attacker{singleID: singleID{id: id}}
}

func (a *Attacker) Name() string { return "Attacker" }

func (a *Attacker) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	aw.Clear(a.id)

	robot, ok := w.AlliesBot[a.id]
	if !ok {
		return false
	}
	ball := w.Ball
	if ball == nil {
		return false
	}
	ballPos := ball.Position2D()

	windows := openShootWindows(ballPos, w)
	for i, wnd := range windows {
		tools.AddLine(fmt.Sprintf("shoot_window_%d", i), wnd)
	}

	// A fast ball running back toward our half is lost: go get it.
	if ball.Velocity2D().Norm() > 1 && ball.Velocity.X < 0 {
		a.state = placeForShoot
		aw.Push(a.id, intercept(robot, ball))
		return false
	}

	if len(windows) == 0 {
		if target, line, ok := a.pickPassTarget(w, ballPos); ok {
			if a.receiver == nil || *a.receiver != target {
				id := target
				a.receiver = &id
				a.send(a.id, WantToPassBallTo{Target: target, Line: line})
			}
			tools.AddLine("passing_line", line)
			// The pass is played like a shot at the receiver's position.
			aw.Push(a.id, shoot(robot, ball, line.End, w))
			if ball.Velocity2D().Norm() > 1 {
				a.send(a.id, BallPassed{Target: target})
				a.receiver = nil
			}
			return false
		}
		// Fully shadowed and nobody to pass to: force the goal center.
		aw.Push(a.id, shoot(robot, ball, w.Geometry.EnemyGoal.Center(), w))
		return false
	}

	if a.receiver != nil {
		a.send(a.id, NoNeedReceiver{})
		a.receiver = nil
	}

	best, _ := longestWindow(windows)
	target := best.Center()
	tools.AddPoint("shoot_target", target)

	a.updateState(robot, ball, w)
	aw.Push(a.id, shoot(robot, ball, target, w))
	return false
}

// pickPassTarget chooses the ally in the attacking half that would have
// the most open goal and a clear passing lane from the ball.
func (a *Attacker) pickPassTarget(w *world.World, ballPos geom.Vec2) (world.RobotID, geom.Line, bool) {
	var (
		bestID    world.RobotID
		bestLine  geom.Line
		bestScore = -1.0
	)
	for _, ally := range w.AlliesBot.Values() {
		if ally.ID == a.id || ally.Pose.Position.X <= 0 {
			continue
		}
		lane := geom.NewLine(ballPos, ally.Pose.Position)
		if passLaneBlocked(w, a.id, lane) {
			continue
		}
		score := 0.0
		for _, wnd := range openShootWindows(ally.Pose.Position, w) {
			score += wnd.Norm()
		}
		if score > bestScore {
			bestID, bestLine, bestScore = ally.ID, lane, score
		}
	}
	if bestScore < 0 {
		return 0, geom.Line{}, false
	}
	return bestID, bestLine, true
}

// passLaneBlocked reports whether any enemy sits on the passing lane.
func passLaneBlocked(w *world.World, selfID world.RobotID, lane geom.Line) bool {
	clearance := 2 * w.Geometry.RobotRadius
	for _, enemy := range w.EnemiesBot.Values() {
		if lane.DistanceToPoint(enemy.Pose.Position) < clearance {
			return true
		}
	}
	for _, ally := range w.AlliesBot.Values() {
		if ally.ID == selfID || ally.Pose.Position == lane.End {
			continue
		}
		if lane.DistanceToPoint(ally.Pose.Position) < clearance {
			return true
		}
	}
	return false
}

func (a *Attacker) updateState(robot *world.Robot[world.AllyInfo], ball *world.Ball, w *world.World) {
	ballPos := ball.Position2D()
	dir := geom.VectorFromAngle(robot.Pose.Orientation)
	aligned := dir.Dot(ballPos.Sub(robot.Pose.Position).Normalize()) > 0.95
	inRange := robot.Distance(ballPos) < w.Geometry.RobotRadius+w.Geometry.BallRadius+0.002
	if aligned && inRange {
		a.state = shooting
	} else {
		a.state = placeForShoot
	}
}
