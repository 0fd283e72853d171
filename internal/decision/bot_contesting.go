package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// BotContesting fights for a ball the enemy controls: it approaches from
// the own-goal side so the opponent has to go through us.
type BotContesting struct {
	singleID
	outbox
}

// NewBotContesting builds a contesting strategy for id.
func NewBotContesting(id world.RobotID) *BotContesting {
	return &BotContesting{singleID: singleID{id: id}}
}

func (b *BotContesting) Name() string { return "BotContesting" }

func (b *BotContesting) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool {
	aw.Clear(b.id)

	ball := w.Ball
	if ball == nil {
		return false
	}
	robot, ok := w.AlliesBot[b.id]
	if !ok {
		return false
	}
	ballPos := ball.Position2D()
	goalCenter := w.Geometry.AllyGoal.Center()

	toGoal := goalCenter.Sub(ballPos).Normalize()
	if toGoal.Norm() == 0 {
		toGoal = geom.Vec2{X: -1}
	}
	target := ballPos.Add(toGoal.Scale(w.Geometry.RobotRadius + w.Geometry.BallRadius))

	var dribbler float32
	if robot.Distance(ballPos) < 1 {
		dribbler = 1
	}
	aw.Push(b.id, NewMoveTo(target, geom.AngleToPoint(robot.Pose.Position, ballPos), dribbler, false, nil, true))
	return false
}
