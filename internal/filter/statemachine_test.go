package filter

import (
	"testing"
	"time"

	"sslcoach/internal/geom"
	"sslcoach/internal/input"
	"sslcoach/internal/world"
)

// fakeClock drives the state machine deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMachine() (*GameControllerFilter, *fakeClock) {
	clock := &fakeClock{now: t0}
	f := NewGameControllerFilter()
	f.Now = clock.Now
	return f, clock
}

func stepWithCommand(f *GameControllerFilter, w *world.World, cmd input.RefereeCommand) {
	d := NewData()
	d.Referee = []input.RefereePacket{{Command: cmd}}
	f.Step(d, w)
}

// TestHaltFromAnyState verifies the Halt command always lands in
// Halted(Halt).
func TestHaltFromAnyState(t *testing.T) {
	startStates := []world.GameState{
		world.Halted(world.SubGameNotStarted),
		world.Stopped(world.SubStop),
		world.Running(world.SubNormalPlay),
		world.RunningFor(world.SubFreeKick, world.Yellow),
		world.HaltedFor(world.SubPrepareKickoff, world.Blue),
		world.StoppedFor(world.SubBallPlacement, world.Yellow),
	}
	for _, start := range startStates {
		t.Run(string(start.Sub), func(t *testing.T) {
			f, _ := newTestMachine()
			w := world.NewWorld(world.Blue)
			w.RefOrders.Update(start, nil, nil)
			stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdHalt})
			if w.RefOrders.State != world.Halted(world.SubHalt) {
				t.Errorf("state = %+v, want Halted(Halt)", w.RefOrders.State)
			}
			if w.RefOrders.SpeedLimit != 0 {
				t.Errorf("speed limit = %v, want 0 under halt", w.RefOrders.SpeedLimit)
			}
		})
	}
}

// TestStopOrders verifies the stop state carries the 1.5 m/s cap and the
// ball keep-away distance.
func TestStopOrders(t *testing.T) {
	f, _ := newTestMachine()
	w := world.NewWorld(world.Blue)
	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdStop})
	if w.RefOrders.State != world.Stopped(world.SubStop) {
		t.Fatalf("state = %+v", w.RefOrders.State)
	}
	if w.RefOrders.SpeedLimit != 1.5 {
		t.Errorf("speed limit = %v, want 1.5", w.RefOrders.SpeedLimit)
	}
	if w.RefOrders.MinDistFromBall != 1.5 {
		t.Errorf("min dist = %v, want 1.5", w.RefOrders.MinDistFromBall)
	}
}

// TestKickoffSequence replays the full kickoff scenario: prepare, normal
// start, 10 s of silence, then automatic normal play.
func TestKickoffSequence(t *testing.T) {
	f, clock := newTestMachine()
	w := world.NewWorld(world.Blue)

	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdPrepareKickoff, Team: world.Blue})
	if w.RefOrders.State != world.HaltedFor(world.SubPrepareKickoff, world.Blue) {
		t.Fatalf("after prepare: %+v", w.RefOrders.State)
	}

	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdNormalStart})
	if w.RefOrders.State != world.RunningFor(world.SubKickOff, world.Blue) {
		t.Fatalf("after normal start: %+v", w.RefOrders.State)
	}

	// Nine seconds in the kickoff persists.
	clock.advance(9 * time.Second)
	f.Step(NewData(), w)
	if w.RefOrders.State.Sub != world.SubKickOff {
		t.Fatalf("kickoff ended early: %+v", w.RefOrders.State)
	}

	// At ten seconds with no touch it releases into normal play.
	clock.advance(time.Second)
	f.Step(NewData(), w)
	if w.RefOrders.State != world.Running(world.SubNormalPlay) {
		t.Errorf("after timeout: %+v, want Running(NormalPlay)", w.RefOrders.State)
	}
}

// TestKickoffEndsOnBallTouch releases the kickoff as soon as the ball is
// played.
func TestKickoffEndsOnBallTouch(t *testing.T) {
	f, clock := newTestMachine()
	w := world.NewWorld(world.Blue)

	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdPrepareKickoff, Team: world.Blue})
	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdNormalStart})

	clock.advance(2 * time.Second)
	w.Ball = &world.Ball{LastTouch: &world.Touch{ID: 1, Team: world.Blue, Time: clock.now}}
	f.Step(NewData(), w)
	if w.RefOrders.State != world.Running(world.SubNormalPlay) {
		t.Errorf("state = %+v, want NormalPlay after the touch", w.RefOrders.State)
	}
	if !f.StateData().KickedOffOnce {
		t.Error("KickedOffOnce should be set after a played kickoff")
	}
}

// TestForceStart jumps straight to normal play and records the kickoff.
func TestForceStart(t *testing.T) {
	f, _ := newTestMachine()
	w := world.NewWorld(world.Blue)
	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdForceStart})
	if w.RefOrders.State != world.Running(world.SubNormalPlay) {
		t.Fatalf("state = %+v", w.RefOrders.State)
	}
	if !w.KickedOffOnce {
		t.Error("force start must set KickedOffOnce")
	}
}

// TestDirectFreeArmsTimer verifies the 5 s free kick release.
func TestDirectFreeArmsTimer(t *testing.T) {
	f, clock := newTestMachine()
	w := world.NewWorld(world.Blue)
	stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdDirectFree, Team: world.Yellow})
	if w.RefOrders.State != world.RunningFor(world.SubFreeKick, world.Yellow) {
		t.Fatalf("state = %+v", w.RefOrders.State)
	}
	clock.advance(5 * time.Second)
	f.Step(NewData(), w)
	if w.RefOrders.State != world.Running(world.SubNormalPlay) {
		t.Errorf("state = %+v, want NormalPlay after 5s", w.RefOrders.State)
	}
}

// TestBallPlacementReadsDesignatedPosition propagates the placement point.
func TestBallPlacementReadsDesignatedPosition(t *testing.T) {
	f, _ := newTestMachine()
	w := world.NewWorld(world.Blue)
	pos := geom.Vec2{X: 1.5, Y: -0.5}
	d := NewData()
	d.Referee = []input.RefereePacket{{
		Command:            input.RefereeCommand{Kind: input.CmdBallPlacement, Team: world.Yellow},
		DesignatedPosition: &pos,
	}}
	f.Step(d, w)
	if w.RefOrders.State != world.StoppedFor(world.SubBallPlacement, world.Yellow) {
		t.Fatalf("state = %+v", w.RefOrders.State)
	}
	if w.RefOrders.DesignatedPosition == nil || *w.RefOrders.DesignatedPosition != pos {
		t.Errorf("designated position = %v, want %v", w.RefOrders.DesignatedPosition, pos)
	}
}

// TestDeprecatedCommandsRetainState covers the no-op branch.
func TestDeprecatedCommandsRetainState(t *testing.T) {
	for _, kind := range []input.RefereeCommandKind{input.CmdGoal, input.CmdIndirectFree, input.CmdDeprecated} {
		f, _ := newTestMachine()
		w := world.NewWorld(world.Blue)
		stepWithCommand(f, w, input.RefereeCommand{Kind: input.CmdForceStart})
		stepWithCommand(f, w, input.RefereeCommand{Kind: kind})
		if w.RefOrders.State != world.Running(world.SubNormalPlay) {
			t.Errorf("kind %d changed the state to %+v", kind, w.RefOrders.State)
		}
	}
}

// TestScoresAndPositiveHalfPropagate folds the team blocks into the world.
func TestScoresAndPositiveHalfPropagate(t *testing.T) {
	f, _ := newTestMachine()
	w := world.NewWorld(world.Blue)
	half := world.Blue
	d := NewData()
	d.Referee = []input.RefereePacket{{
		Command:      input.RefereeCommand{Kind: input.CmdStop},
		Ally:         input.TeamInfo{Score: 2},
		Enemy:        input.TeamInfo{Score: 1},
		PositiveHalf: &half,
	}}
	f.Step(d, w)
	if w.AllyScore != 2 || w.EnemyScore != 1 {
		t.Errorf("scores = %d:%d, want 2:1", w.AllyScore, w.EnemyScore)
	}
	if w.PositiveHalf != world.Blue {
		t.Errorf("positive half = %v, want blue", w.PositiveHalf)
	}
}
