package output

import (
	"math"
	"testing"

	"sslcoach/internal/command"
	"sslcoach/internal/decision"
	"sslcoach/internal/geom"
	"sslcoach/internal/input"
	"sslcoach/internal/world"
)

// captureTransport records the last command batch instead of sending it.
type captureTransport struct {
	last   command.Map
	closed int
}

func (c *captureTransport) Send(cmds command.Map) (map[world.RobotID]input.Feedback, error) {
	c.last = cmds
	return nil, nil
}

func (c *captureTransport) Close() { c.closed++ }

// captureFollower records the MoveTo it was asked to follow.
type captureFollower struct {
	last decision.MoveTo
	out  [3]float32
}

func (f *captureFollower) Follow(_ *world.Robot[world.AllyInfo], mv decision.MoveTo) (float32, float32, float32) {
	f.last = mv
	return f.out[0], f.out[1], f.out[2]
}

func runningWorld() *world.World {
	w := world.NewWorld(world.Blue)
	w.RefOrders.Update(world.Running(world.SubNormalPlay), nil, nil)
	return w
}

// TestZeroCommandsWithoutActions: every present robot gets an explicit
// zero command when no strategy pushed anything.
func TestZeroCommandsWithoutActions(t *testing.T) {
	transport := &captureTransport{}
	e := NewExecutor(NewPFollower(), transport)
	w := runningWorld()
	for _, id := range []world.RobotID{0, 3, 7} {
		w.AlliesBot[id] = &world.Robot[world.AllyInfo]{ID: id}
	}

	e.Step(w, decision.NewActionWrapper())

	if len(transport.last) != 3 {
		t.Fatalf("sent %d commands, want 3", len(transport.last))
	}
	for id, cmd := range transport.last {
		if cmd != (command.Command{}) {
			t.Errorf("robot %d: command %+v, want all zeros", id, cmd)
		}
	}
}

// TestSpeedClamp scales the linear velocity down to the referee limit.
func TestSpeedClamp(t *testing.T) {
	follower := &captureFollower{out: [3]float32{3, 4, 1}} // speed 5
	transport := &captureTransport{}
	e := NewExecutor(follower, transport)
	w := runningWorld()
	w.RefOrders.SpeedLimit = 1.5
	w.AlliesBot[1] = &world.Robot[world.AllyInfo]{ID: 1}

	aw := decision.NewActionWrapper()
	aw.Push(1, decision.NewMoveTo(geom.Vec2{X: 1}, 0, 0, false, nil, false))
	e.Step(w, aw)

	cmd := transport.last[1]
	speed := math.Hypot(float64(cmd.ForwardVelocity), float64(cmd.LeftVelocity))
	if speed > 1.5+1e-6 {
		t.Errorf("clamped speed = %v, want <= 1.5", speed)
	}
	// Direction is preserved: 3:4 ratio.
	if math.Abs(float64(cmd.ForwardVelocity)/float64(cmd.LeftVelocity)-0.75) > 1e-6 {
		t.Errorf("clamp changed direction: %+v", cmd)
	}
}

// TestHaltZeroesEverything: a zero speed limit stops the drive entirely.
func TestHaltZeroesEverything(t *testing.T) {
	follower := &captureFollower{out: [3]float32{2, 0, 5}}
	transport := &captureTransport{}
	e := NewExecutor(follower, transport)
	w := runningWorld()
	w.RefOrders.Update(world.Halted(world.SubHalt), nil, nil)
	w.AlliesBot[1] = &world.Robot[world.AllyInfo]{ID: 1}

	aw := decision.NewActionWrapper()
	aw.Push(1, decision.NewMoveTo(geom.Vec2{X: 1}, 0, 0, false, nil, false))
	e.Step(w, aw)

	cmd := transport.last[1]
	if cmd.ForwardVelocity != 0 || cmd.LeftVelocity != 0 || cmd.AngularVelocity != 0 {
		t.Errorf("command under halt = %+v, want zero drive", cmd)
	}
}

// TestMinDistVeto substitutes a tangential escape when the path enters
// the keep-away circle.
func TestMinDistVeto(t *testing.T) {
	follower := &captureFollower{}
	transport := &captureTransport{}
	e := NewExecutor(follower, transport)
	w := runningWorld()
	w.RefOrders.Update(world.Stopped(world.SubStop), nil, nil)
	w.AlliesBot[1] = &world.Robot[world.AllyInfo]{ID: 1, Pose: world.NewPose(geom.Vec2{X: -2}, 0)}
	w.Ball = &world.Ball{}

	// The straight path to the far side runs through the ball.
	aw := decision.NewActionWrapper()
	aw.Push(1, decision.NewMoveTo(geom.Vec2{X: 2}, 0, 0, false, nil, false))
	e.Step(w, aw)

	got := follower.last.Target
	if got.DistanceTo(geom.Vec2{}) < w.RefOrders.MinDistFromBall {
		t.Errorf("substituted target %v is inside the keep-away circle", got)
	}
	if got == (geom.Vec2{X: 2}) {
		t.Error("path through the ball was not vetoed")
	}
}

// TestRawOrderPassthrough forwards a raw command untouched (modulo the
// speed clamp).
func TestRawOrderPassthrough(t *testing.T) {
	transport := &captureTransport{}
	e := NewExecutor(NewPFollower(), transport)
	w := runningWorld()
	w.AlliesBot[4] = &world.Robot[world.AllyInfo]{ID: 4}

	aw := decision.NewActionWrapper()
	aw.Push(4, decision.RawOrder{Command: command.Command{ForwardVelocity: 1, Dribbler: 1}})
	e.Step(w, aw)

	cmd := transport.last[4]
	if cmd.ForwardVelocity != 1 || cmd.Dribbler != 1 {
		t.Errorf("raw order mangled: %+v", cmd)
	}
}

// TestCloseClosesTransport releases the device exactly once per Close.
func TestCloseClosesTransport(t *testing.T) {
	transport := &captureTransport{}
	e := NewExecutor(NewPFollower(), transport)
	e.Close()
	if transport.closed != 1 {
		t.Errorf("transport closed %d times, want 1", transport.closed)
	}
}
