package filter

import (
	"math"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// TeamSideFilter mirrors every tracked pose through the origin when we
// defend the positive half, so downstream code always sees our goal at
// negative x. Entries are only flipped when their tracked timestamp is
// newer than the world's copy: an entity already published this capture
// must not flip twice.
type TeamSideFilter struct{}

func (TeamSideFilter) Step(d *Data, w *world.World) {
	if w.TeamColor != w.PositiveHalf {
		return
	}
	for id, tracked := range d.Allies {
		if prev, ok := w.AlliesBot[id]; ok && !tracked.Data.Timestamp.After(prev.Timestamp) {
			continue
		}
		flipRobot(&tracked.Data.Pose, &tracked.Data.Velocity, &tracked.Data.Acceleration)
	}
	for id, tracked := range d.Enemies {
		if prev, ok := w.EnemiesBot[id]; ok && !tracked.Data.Timestamp.After(prev.Timestamp) {
			continue
		}
		flipRobot(&tracked.Data.Pose, &tracked.Data.Velocity, &tracked.Data.Acceleration)
	}
	if tracked := d.Ball; tracked != nil {
		if w.Ball == nil || tracked.Data.Timestamp.After(w.Ball.Timestamp) {
			flipVec3(&tracked.Data.Position)
			flipVec3(&tracked.Data.Velocity)
			flipVec3(&tracked.Data.Acceleration)
		}
	}
}

func flipRobot(pose *world.Pose, vel, accel *world.Velocity) {
	pose.Position = pose.Position.Neg()
	pose.Orientation = geom.NormalizeAngle(math.Pi + pose.Orientation)
	vel.Linear = vel.Linear.Neg()
	accel.Linear = accel.Linear.Neg()
}

func flipVec3(v *geom.Vec3) {
	v.X, v.Y = -v.X, -v.Y
}
