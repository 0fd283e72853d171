// Package output turns the tick's action buffer into per-robot commands
// and hands them to the transport, collecting feedback in return.
package output

import (
	"math"

	"sslcoach/internal/decision"
	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// Follower is the trajectory-following collaborator: it turns a MoveTo
// intent into robot-frame velocities for this tick.
type Follower interface {
	Follow(robot *world.Robot[world.AllyInfo], mv decision.MoveTo) (forward, left, angular float32)
}

// PFollower is a proportional follower good enough for the simulator; the
// real controller replaces it.
type PFollower struct {
	GainLinear  float64
	GainAngular float64
	MaxLinear   float64
	MaxAngular  float64
}

// NewPFollower returns a follower with conservative gains.
func NewPFollower() *PFollower {
	return &PFollower{
		GainLinear:  2.0,
		GainAngular: 3.0,
		MaxLinear:   3.0,
		MaxAngular:  6.0,
	}
}

// Follow implements Follower.
func (f *PFollower) Follow(robot *world.Robot[world.AllyInfo], mv decision.MoveTo) (float32, float32, float32) {
	toTarget := mv.Target.Sub(robot.Pose.Position)
	vWorld := toTarget.Scale(f.GainLinear)
	if n := vWorld.Norm(); n > f.MaxLinear {
		vWorld = vWorld.Scale(f.MaxLinear / n)
	}
	// World frame to robot frame: forward along the dribbler axis.
	vRobot := geom.RotateVector(vWorld, -robot.Pose.Orientation)

	angErr := angularError(robot.Pose.Orientation, mv.Orientation)
	angular := f.GainAngular * angErr
	angular = math.Max(-f.MaxAngular, math.Min(f.MaxAngular, angular))

	return float32(vRobot.X), float32(vRobot.Y), float32(angular)
}

// angularError is the shortest signed rotation from current to target.
func angularError(current, target float64) float64 {
	d := geom.NormalizeAngle(target - current)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}
