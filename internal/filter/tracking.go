package filter

import (
	"math"
	"time"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// defaultSmoothingWindow is how far back the velocity estimate looks.
const defaultSmoothingWindow = 200 * time.Millisecond

// TrackingFilter rewrites each tracked entity from its newest packet and
// estimates velocity and acceleration by differencing across the packet
// window. Packets older than the window are discarded afterwards.
type TrackingFilter struct {
	window time.Duration
}

// NewTrackingFilter builds the default smoothing filter.
func NewTrackingFilter(window time.Duration) *TrackingFilter {
	return &TrackingFilter{window: window}
}

func (f *TrackingFilter) Step(d *Data, w *world.World) {
	for _, tracked := range d.Allies {
		trackRobot(tracked, f.window)
	}
	for _, tracked := range d.Enemies {
		trackRobot(tracked, f.window)
	}
	f.trackBall(d)
}

func trackRobot[T any](t *TrackedRobot[T], window time.Duration) {
	packets := t.Packets.Peek()
	if len(packets) == 0 {
		return
	}
	newest := packets[len(packets)-1]
	if !newest.Time.After(t.LastUpdate) {
		// Stale or duplicate frame; nothing newer to fold in.
		return
	}

	oldest := packets[0]
	for _, p := range packets {
		if newest.Time.Sub(p.Time) <= window {
			oldest = p
			break
		}
	}

	prevVel := t.Data.Velocity
	velocity := world.Velocity{}
	dt := newest.Time.Sub(oldest.Time).Seconds()
	if dt > 0 {
		velocity.Linear = newest.Position.Sub(oldest.Position).Scale(1 / dt)
		velocity.Angular = angleDelta(oldest.Orientation, newest.Orientation) / dt
	}

	accel := world.Velocity{}
	adt := newest.Time.Sub(t.Data.Timestamp).Seconds()
	if adt > 0 && !t.Data.Timestamp.IsZero() {
		accel.Linear = velocity.Linear.Sub(prevVel.Linear).Scale(1 / adt)
		accel.Angular = (velocity.Angular - prevVel.Angular) / adt
	}

	t.Data.Pose = world.NewPose(newest.Position, newest.Orientation)
	t.Data.Velocity = velocity
	t.Data.Acceleration = accel
	t.Data.Timestamp = newest.Time
	t.LastUpdate = newest.Time

	// Keep only the window the next estimate needs.
	kept := t.Packets.Drain()
	for _, p := range kept {
		if newest.Time.Sub(p.Time) <= window {
			t.Packets.Push(p)
		}
	}
}

func (f *TrackingFilter) trackBall(d *Data) {
	t := d.Ball
	if t == nil {
		return
	}
	packets := t.Packets.Peek()
	if len(packets) == 0 {
		return
	}
	newest := packets[len(packets)-1]
	if !newest.Time.After(t.LastUpdate) {
		return
	}

	oldest := packets[0]
	for _, p := range packets {
		if newest.Time.Sub(p.Time) <= f.window {
			oldest = p
			break
		}
	}

	prevVel := t.Data.Velocity
	velocity := geom.Vec3{}
	dt := newest.Time.Sub(oldest.Time).Seconds()
	if dt > 0 {
		velocity = geom.Vec3{
			X: (newest.Position.X - oldest.Position.X) / dt,
			Y: (newest.Position.Y - oldest.Position.Y) / dt,
			Z: (newest.Position.Z - oldest.Position.Z) / dt,
		}
	}
	accel := geom.Vec3{}
	adt := newest.Time.Sub(t.Data.Timestamp).Seconds()
	if adt > 0 && !t.Data.Timestamp.IsZero() {
		accel = geom.Vec3{
			X: (velocity.X - prevVel.X) / adt,
			Y: (velocity.Y - prevVel.Y) / adt,
			Z: (velocity.Z - prevVel.Z) / adt,
		}
	}

	t.Data.Position = newest.Position
	t.Data.Velocity = velocity
	t.Data.Acceleration = accel
	t.Data.Timestamp = newest.Time
	t.LastUpdate = newest.Time

	kept := t.Packets.Drain()
	for _, p := range kept {
		if newest.Time.Sub(p.Time) <= f.window {
			t.Packets.Push(p)
		}
	}
}

// PassthroughFilter is the minimal baseline: newest packet wins, zero
// velocity and acceleration, ring cleared.
type PassthroughFilter struct{}

func (PassthroughFilter) Step(d *Data, w *world.World) {
	for _, t := range d.Allies {
		passthroughRobot(t)
	}
	for _, t := range d.Enemies {
		passthroughRobot(t)
	}
	if t := d.Ball; t != nil {
		if newest, ok := t.Packets.Newest(); ok {
			t.Data = world.Ball{Position: newest.Position, Timestamp: newest.Time}
			t.LastUpdate = newest.Time
			t.Packets.Clear()
		} else {
			// Ring drained empty: the ball is gone from the world.
			d.Ball = nil
		}
	}
}

func passthroughRobot[T any](t *TrackedRobot[T]) {
	if newest, ok := t.Packets.Newest(); ok {
		var info T
		t.Data = world.Robot[T]{
			ID:        newest.ID,
			Pose:      world.NewPose(newest.Position, newest.Orientation),
			Timestamp: newest.Time,
			Info:      info,
		}
		t.LastUpdate = newest.Time
	}
	t.Packets.Clear()
}

// angleDelta returns the shortest signed rotation from a to b.
func angleDelta(a, b float64) float64 {
	d := geom.NormalizeAngle(b - a)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}
