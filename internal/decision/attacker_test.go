package decision

import (
	"math"
	"testing"

	"sslcoach/internal/geom"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

const testEps = 1e-9

// windowsDisjointSubset fails unless the windows are pairwise disjoint
// and contained in the goal segment.
func windowsDisjointSubset(t *testing.T, windows []geom.Line, goal geom.Line) {
	t.Helper()
	lo, hi := goal.Start.Y, goal.End.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	type span struct{ a, b float64 }
	var spans []span
	for _, w := range windows {
		a, b := w.Start.Y, w.End.Y
		if a > b {
			a, b = b, a
		}
		if a < lo-testEps || b > hi+testEps {
			t.Errorf("window [%v, %v] escapes the goal [%v, %v]", a, b, lo, hi)
		}
		if math.Abs(w.Start.X-goal.Start.X) > testEps || math.Abs(w.End.X-goal.Start.X) > testEps {
			t.Errorf("window not on the goal line: %+v", w)
		}
		spans = append(spans, span{a, b})
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].a < spans[j].b-testEps && spans[j].a < spans[i].b-testEps {
				t.Errorf("windows %d and %d overlap", i, j)
			}
		}
	}
}

// TestOpenShootWindowsNoEnemies: an empty field leaves the whole goal
// open.
func TestOpenShootWindowsNoEnemies(t *testing.T) {
	w := testWorld(world.Blue)
	windows := openShootWindows(geom.Vec2{X: -3.5}, w)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	goal := w.Geometry.EnemyGoal.Line
	if windows[0] != goal {
		t.Errorf("window = %+v, want the full goal segment %+v", windows[0], goal)
	}
	mid := windows[0].Center()
	if math.Abs(mid.X-4.5) > testEps || math.Abs(mid.Y) > testEps {
		t.Errorf("window midpoint = %v, want the goal center (4.5, 0)", mid)
	}
}

// TestOpenShootWindowsCentralBlocker: one enemy in the middle splits the
// goal into two equal windows.
func TestOpenShootWindowsCentralBlocker(t *testing.T) {
	w := testWorld(world.Blue)
	addEnemy(w, 1, 4, 0)
	shootStart := geom.Vec2{X: 0, Y: 0}

	windows := openShootWindows(shootStart, w)
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	windowsDisjointSubset(t, windows, w.Geometry.EnemyGoal.Line)
	if math.Abs(windows[0].Norm()-windows[1].Norm()) > testEps {
		t.Errorf("window lengths %v and %v should match by symmetry",
			windows[0].Norm(), windows[1].Norm())
	}
}

// TestOpenShootWindowsFlankingEnemies: two symmetric blockers keep the
// result disjoint and inside the goal, and cut part of the goal away.
func TestOpenShootWindowsFlankingEnemies(t *testing.T) {
	w := testWorld(world.Blue)
	addEnemy(w, 1, 4, 0.25)
	addEnemy(w, 2, 4, -0.25)

	windows := openShootWindows(geom.Vec2{}, w)
	if len(windows) == 0 {
		t.Fatal("symmetric flankers should leave open windows")
	}
	windowsDisjointSubset(t, windows, w.Geometry.EnemyGoal.Line)

	total := 0.0
	for _, wnd := range windows {
		total += wnd.Norm()
	}
	if total >= w.Geometry.EnemyGoal.Line.Norm() {
		t.Error("blockers removed nothing from the goal")
	}
}

// TestLongestWindowTieBreak keeps the first occurrence on equal lengths.
func TestLongestWindowTieBreak(t *testing.T) {
	a := geom.NewLine(geom.Vec2{X: 4.5, Y: -0.5}, geom.Vec2{X: 4.5, Y: -0.1})
	b := geom.NewLine(geom.Vec2{X: 4.5, Y: 0.1}, geom.Vec2{X: 4.5, Y: 0.5})
	best, ok := longestWindow([]geom.Line{a, b})
	if !ok || best != a {
		t.Errorf("longestWindow = %+v, want the first of equals", best)
	}
}

// TestAttackerShootsAtGoalCenter replays the lone-attacker scenario: the
// whole goal is open and the shot lines up on its center.
func TestAttackerShootsAtGoalCenter(t *testing.T) {
	w := testWorld(world.Blue)
	addAlly(w, 1, -4, 0)
	setBall(w, -3.5, 0)

	a := NewAttacker(1)
	aw := NewActionWrapper()
	a.Step(w, tool.NewData(), aw)

	action, ok := aw.Head(1)
	if !ok {
		t.Fatal("attacker pushed no action")
	}
	mv, ok := action.(MoveTo)
	if !ok {
		t.Fatalf("action is %T, want MoveTo", action)
	}
	if math.Abs(mv.Orientation) > testEps {
		t.Errorf("orientation = %v rad, want 0 (facing the goal center)", mv.Orientation)
	}
	if mv.Target != w.Ball.Position2D() {
		t.Errorf("target = %v, want the ball (aligned approach)", mv.Target)
	}
}

// TestAttackerInterceptsRetreatingBall chases a fast ball rolling toward
// our half.
func TestAttackerInterceptsRetreatingBall(t *testing.T) {
	w := testWorld(world.Blue)
	addAlly(w, 1, 1, 1)
	setBall(w, 0, 0)
	w.Ball.Velocity = geom.Vec3{X: -3}

	a := NewAttacker(1)
	aw := NewActionWrapper()
	a.Step(w, tool.NewData(), aw)

	action, ok := aw.Head(1)
	if !ok {
		t.Fatal("attacker pushed no action")
	}
	mv := action.(MoveTo)
	// The intercept point is the projection on the ball's path, which
	// runs along -x from the origin: y must be 0.
	if math.Abs(mv.Target.Y) > testEps {
		t.Errorf("intercept target = %v, want a point on the ball trajectory", mv.Target)
	}
}

// TestAttackerRequestsPassWhenShadowed emits WantToPassBallTo when the
// goal is fully covered and a teammate is free in the attacking half.
func TestAttackerRequestsPassWhenShadowed(t *testing.T) {
	w := testWorld(world.Blue)
	addAlly(w, 1, 1.6, 0)
	addAlly(w, 2, 3.5, 1.5)
	addEnemy(w, 3, 2.6, 0) // close blocker, shadows the whole goal
	setBall(w, 2, 0)

	a := NewAttacker(1)
	aw := NewActionWrapper()
	a.Step(w, tool.NewData(), aw)

	msgs := a.TakeMessages()
	var pass *WantToPassBallTo
	for _, m := range msgs {
		if p, ok := m.Message.(WantToPassBallTo); ok {
			pass = &p
		}
	}
	if pass == nil {
		t.Fatal("no WantToPassBallTo emitted")
	}
	if pass.Target != 2 {
		t.Errorf("pass target = %d, want 2", pass.Target)
	}
	if _, ok := aw.Head(1); !ok {
		t.Error("attacker should still push the passing shot")
	}
}

// TestAttackerWithdrawsReceiver sends NoNeedReceiver once a window opens
// again.
func TestAttackerWithdrawsReceiver(t *testing.T) {
	w := testWorld(world.Blue)
	addAlly(w, 1, 1.6, 0)
	addAlly(w, 2, 3.5, 1.5)
	addEnemy(w, 3, 2.6, 0)
	setBall(w, 2, 0)

	a := NewAttacker(1)
	aw := NewActionWrapper()
	a.Step(w, tool.NewData(), aw)
	a.TakeMessages()

	// The blocker leaves; the goal opens up.
	delete(w.EnemiesBot, 3)
	a.Step(w, tool.NewData(), aw)
	withdrawn := false
	for _, m := range a.TakeMessages() {
		if _, ok := m.Message.(NoNeedReceiver); ok {
			withdrawn = true
		}
	}
	if !withdrawn {
		t.Error("attacker kept its receiver after the window opened")
	}
}

// TestAttackerMissingEntities pushes nothing when the robot or ball is
// absent.
func TestAttackerMissingEntities(t *testing.T) {
	a := NewAttacker(1)

	w := testWorld(world.Blue)
	setBall(w, 0, 0)
	aw := NewActionWrapper()
	a.Step(w, tool.NewData(), aw) // robot absent
	if _, ok := aw.Head(1); ok {
		t.Error("action pushed without a tracked robot")
	}

	w = testWorld(world.Blue)
	addAlly(w, 1, 0, 0)
	aw = NewActionWrapper()
	a.Step(w, tool.NewData(), aw) // ball absent
	if _, ok := aw.Head(1); ok {
		t.Error("action pushed without a ball")
	}
}

// TestShootKicksAtContact verifies the kick fires only inside contact
// range and with the dribbler released.
func TestShootKicksAtContact(t *testing.T) {
	w := testWorld(world.Blue)
	contact := w.Geometry.RobotRadius + w.Geometry.BallRadius
	addAlly(w, 1, 4.5-1.0-contact, 0)
	robot := w.AlliesBot[1]
	ball := &world.Ball{Position: geom.Vec3{X: robot.Pose.Position.X + contact + 0.001}}
	w.Ball = ball

	mv := shoot(robot, ball, geom.Vec2{X: 4.5}, w)
	if mv.Kick == nil {
		t.Fatal("no kick at contact range while aligned")
	}
	if mv.Kick.Power != shootKickPower {
		t.Errorf("kick power = %v, want %v", mv.Kick.Power, shootKickPower)
	}
	if mv.Dribbler != 0 {
		t.Errorf("dribbler = %v, must release for the kick", mv.Dribbler)
	}
	if !mv.Charge {
		t.Error("charge must be held on the shot approach")
	}
}

// TestShootGoesBehindBall swings behind the ball when on the wrong side.
func TestShootGoesBehindBall(t *testing.T) {
	w := testWorld(world.Blue)
	// Robot between ball and goal, facing the goal: wrong side.
	addAlly(w, 1, 1, 0)
	ball := &world.Ball{Position: geom.Vec3{X: 0.5}}
	w.Ball = ball

	mv := shoot(w.AlliesBot[1], ball, geom.Vec2{X: 4.5}, w)
	want := geom.Vec2{X: 0.5 - goBehindBallDist, Y: 0}
	if mv.Target.DistanceTo(want) > 1e-6 {
		t.Errorf("target = %v, want behind the ball at %v", mv.Target, want)
	}
	if mv.Kick != nil {
		t.Error("no kick while repositioning")
	}
}
