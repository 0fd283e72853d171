package output

import (
	"math"

	"sslcoach/internal/command"
	"sslcoach/internal/decision"
	"sslcoach/internal/geom"
	"sslcoach/internal/input"
	"sslcoach/internal/metrics"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/world"
)

// Transport delivers the tick's commands to the robots and returns
// whatever feedback came back.
type Transport interface {
	Send(cmds command.Map) (map[world.RobotID]input.Feedback, error)
	Close()
}

// Executor flushes the action buffer into commands. Robots with no intent
// this tick get explicit zeros so a stale order never keeps driving them.
type Executor struct {
	follower  Follower
	transport Transport
}

// NewExecutor wires the follower and transport.
func NewExecutor(follower Follower, transport Transport) *Executor {
	return &Executor{follower: follower, transport: transport}
}

// Step drains the wrapper and sends one command per present ally.
func (e *Executor) Step(w *world.World, aw *decision.ActionWrapper) map[world.RobotID]input.Feedback {
	cmds := make(command.Map, len(w.AlliesBot))
	for id, robot := range w.AlliesBot {
		cmd := command.Command{}
		if action, ok := aw.Head(id); ok {
			switch a := action.(type) {
			case decision.MoveTo:
				cmd = e.execMoveTo(w, robot, a)
			case decision.RawOrder:
				cmd = a.Command
			}
		}
		cmds[id] = clampSpeed(cmd, w.RefOrders.SpeedLimit)
	}
	aw.ClearAll()

	feedback, err := e.transport.Send(cmds)
	if err != nil {
		telemetry.Errorf("transport send: %v", err)
		metrics.RecordTransportError()
		return nil
	}
	metrics.RecordCommands(len(cmds))
	return feedback
}

func (e *Executor) execMoveTo(w *world.World, robot *world.Robot[world.AllyInfo], mv decision.MoveTo) command.Command {
	if w.RefOrders.MinDistFromBall > 0 && w.Ball != nil {
		mv.Target = vetoBallProximity(robot.Pose.Position, mv.Target, w.Ball.Position2D(), w.RefOrders.MinDistFromBall)
	}
	forward, left, angular := e.follower.Follow(robot, mv)
	return command.Command{
		ForwardVelocity: forward,
		LeftVelocity:    left,
		AngularVelocity: angular,
		Kick:            mv.Kick,
		Charge:          mv.Charge,
		Dribbler:        mv.Dribbler,
	}
}

// Close shuts the transport down.
func (e *Executor) Close() {
	e.transport.Close()
}

// vetoBallProximity keeps the path outside the referee keep-away circle by
// substituting a tangential escape target.
func vetoBallProximity(robotPos, target, ball geom.Vec2, minDist float64) geom.Vec2 {
	path := geom.NewLine(robotPos, target)
	if path.DistanceToPoint(ball) >= minDist {
		return target
	}
	away := robotPos.Sub(ball).Normalize()
	if away.Norm() == 0 {
		away = geom.Vec2{X: 1}
	}
	tangent := away.Perp()
	if target.Sub(robotPos).Dot(tangent) < 0 {
		tangent = tangent.Neg()
	}
	// One step along the keep-away circle, slightly outside it.
	return ball.Add(away.Scale(minDist * 1.1)).Add(tangent.Scale(minDist))
}

// clampSpeed caps the command's linear speed at the referee limit. A zero
// limit (halt) zeroes the whole drive.
func clampSpeed(cmd command.Command, limit float64) command.Command {
	if limit <= 0 {
		cmd.ForwardVelocity = 0
		cmd.LeftVelocity = 0
		cmd.AngularVelocity = 0
		return cmd
	}
	speed := math.Hypot(float64(cmd.ForwardVelocity), float64(cmd.LeftVelocity))
	if speed > limit {
		k := float32(limit / speed)
		cmd.ForwardVelocity *= k
		cmd.LeftVelocity *= k
	}
	return cmd
}
