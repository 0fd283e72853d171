package filter

import (
	"math"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

const (
	// possessionContactDist is how close a robot must be to be considered
	// on the ball.
	possessionContactDist = 0.3
	// possessionVelMatch is the max speed-vector difference for a carried
	// ball.
	possessionVelMatch = 0.1
	// possessionAlignment is the velocity-direction agreement required.
	possessionAlignment = 0.75
	// touchAccelThreshold is the ball acceleration that signals a touch.
	touchAccelThreshold = 1.0
	// possessionDistMargin is the closest-robot margin for the kicked-ball
	// rule.
	possessionDistMargin = 0.1
	// ballAbsentTicks is how many detection-free ticks make the ball gone.
	ballAbsentTicks = 2
)

// BallFilter publishes the tracked ball into the world and attributes
// possession and last touch. KeepStale keeps the last estimate alive
// through simulator flicker instead of dropping the ball.
type BallFilter struct {
	KeepStale bool

	staleTicks    int
	prevAccelNorm float64
}

func (f *BallFilter) Step(d *Data, w *world.World) {
	if d.Ball == nil {
		w.Ball = nil
		return
	}
	if d.BallSeenThisTick {
		f.staleTicks = 0
	} else {
		f.staleTicks++
		if f.staleTicks >= ballAbsentTicks && !f.KeepStale {
			// Possession clears with the ball.
			w.Ball = nil
			return
		}
	}

	ball := d.Ball.Data
	if w.Ball != nil {
		ball.Possession = w.Ball.Possession
		ball.LastTouch = w.Ball.LastTouch
	}
	f.deriveLastTouch(&ball, w)
	attributePossession(&ball, w)
	w.Ball = &ball
}

// deriveLastTouch records a touch when the ball's acceleration crosses the
// threshold upward: the closest robot of either team just played it.
func (f *BallFilter) deriveLastTouch(ball *world.Ball, w *world.World) {
	accelNorm := vec3Norm(ball.Acceleration)
	crossed := accelNorm > touchAccelThreshold && f.prevAccelNorm <= touchAccelThreshold
	f.prevAccelNorm = accelNorm
	if !crossed {
		return
	}

	ballPos := ball.Position2D()
	ally := world.ClosestRobot(w.AlliesBot.Values(), ballPos)
	enemy := world.ClosestRobot(w.EnemiesBot.Values(), ballPos)
	switch {
	case ally == nil && enemy == nil:
		return
	case enemy == nil || (ally != nil && ally.Distance(ballPos) <= enemy.Distance(ballPos)):
		ball.LastTouch = &world.Touch{ID: ally.ID, Team: w.TeamColor, Time: ball.Timestamp, Position: ballPos}
	default:
		ball.LastTouch = &world.Touch{ID: enemy.ID, Team: w.TeamColor.Opposite(), Time: ball.Timestamp, Position: ballPos}
	}
}

// attributePossession applies the ordered possession rules; the first
// match wins.
func attributePossession(ball *world.Ball, w *world.World) {
	state := w.RefOrders.State
	if state.Phase != world.PhaseRunning {
		ball.Possession = nil
		return
	}

	// Restart states pin possession to the concerned team.
	if team, ok := state.RestrictsPossession(); ok {
		ball.Possession = &team
		return
	}

	ballPos := ball.Position2D()
	ally := world.ClosestRobot(w.AlliesBot.Values(), ballPos)
	enemy := world.ClosestRobot(w.EnemiesBot.Values(), ballPos)

	// Exactly one team with a robot carrying the ball wins it.
	allyCarries := ally != nil && carriesBall(ally, ball)
	enemyCarries := enemy != nil && carriesBall(enemy, ball)
	if allyCarries != enemyCarries {
		team := w.TeamColor
		if enemyCarries {
			team = w.TeamColor.Opposite()
		}
		ball.Possession = &team
		return
	}

	// A freshly kicked ball belongs to the clearly closer team.
	if vec3Norm(ball.Acceleration) > touchAccelThreshold && ally != nil && enemy != nil {
		allyDist := ally.Distance(ballPos)
		enemyDist := enemy.Distance(ballPos)
		switch {
		case allyDist+possessionDistMargin <= enemyDist:
			team := w.TeamColor
			ball.Possession = &team
		case enemyDist+possessionDistMargin <= allyDist:
			team := w.TeamColor.Opposite()
			ball.Possession = &team
		}
		// Within the margin: keep the previous attribution.
		return
	}

	// Otherwise keep the previous attribution.
}

// carriesBall reports whether the robot is on the ball and moving with it.
func carriesBall[T any](robot *world.Robot[T], ball *world.Ball) bool {
	ballPos := ball.Position2D()
	if robot.Pose.Position.DistanceTo(ballPos) >= possessionContactDist {
		return false
	}
	ballVel := ball.Velocity2D()
	robotVel := robot.Velocity.Linear
	if robotVel.Sub(ballVel).Norm() >= possessionVelMatch {
		return false
	}
	return ballVel.Dot(robotVel) > possessionAlignment*ballVel.Norm()*robotVel.Norm()
}

func vec3Norm(v geom.Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
