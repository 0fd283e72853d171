package filter

import (
	"time"

	"golang.org/x/time/rate"

	"sslcoach/internal/input"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/world"
)

const (
	// kickoffTouchTimeout releases a kickoff or penalty into normal play
	// when nobody touches the ball.
	kickoffTouchTimeout = 10 * time.Second
	// freeKickTimeout releases a free kick the same way.
	freeKickTimeout = 5 * time.Second
)

// StateData persists across ticks for the game-state machine.
type StateData struct {
	LastRefCmd    input.RefereeCommand
	PrevRefCmd    input.RefereeCommand
	HasRefCmd     bool
	AllyScore     uint32
	EnemyScore    uint32
	KickedOffOnce bool
}

// GameControllerFilter translates referee commands into the internal game
// state through a branch per command, with wall-clock timers for the
// restart states.
type GameControllerFilter struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	stateData    StateData
	deadline     *time.Time
	stateEntered time.Time
	unknownOnce  map[input.RefereeCommandKind]*rate.Sometimes
}

// NewGameControllerFilter builds the state machine in GameNotStarted.
func NewGameControllerFilter() *GameControllerFilter {
	return &GameControllerFilter{
		Now:         time.Now,
		unknownOnce: make(map[input.RefereeCommandKind]*rate.Sometimes),
	}
}

// StateData exposes the persistent machine state.
func (f *GameControllerFilter) StateData() StateData { return f.stateData }

func (f *GameControllerFilter) Step(d *Data, w *world.World) {
	for i := range d.Referee {
		f.processPacket(&d.Referee[i], w)
	}
	f.checkTimer(w)
	f.checkBallTouch(w)
	w.AllyScore = f.stateData.AllyScore
	w.EnemyScore = f.stateData.EnemyScore
	w.KickedOffOnce = f.stateData.KickedOffOnce
}

func (f *GameControllerFilter) processPacket(packet *input.RefereePacket, w *world.World) {
	if packet.PositiveHalf != nil {
		w.PositiveHalf = *packet.PositiveHalf
	}
	f.stateData.AllyScore = packet.Ally.Score
	f.stateData.EnemyScore = packet.Enemy.Score

	// Only a new command moves the machine; the game controller repeats
	// its current command every packet. Timers are checked separately.
	if f.stateData.HasRefCmd && packet.Command == f.stateData.LastRefCmd {
		return
	}

	prevState := w.RefOrders.State
	newState, handled := f.runBranch(packet.Command, prevState)
	if !handled {
		return
	}

	f.stateData.KickedOffOnce = f.stateData.KickedOffOnce ||
		prevState != world.Halted(world.SubGameNotStarted)
	f.stateData.PrevRefCmd = f.stateData.LastRefCmd
	f.stateData.LastRefCmd = packet.Command
	f.stateData.HasRefCmd = true

	if newState != prevState {
		var event *world.GameEvent
		if n := len(packet.GameEvents); n > 0 {
			e := packet.GameEvents[n-1]
			event = &e
		}
		w.RefOrders.Update(newState, event, packet.DesignatedPosition)
		f.stateEntered = f.Now()
		telemetry.Debugf("game state %s/%s -> %s/%s",
			prevState.Phase, prevState.Sub, newState.Phase, newState.Sub)
	}
}

// runBranch returns the successor state for a referee command. handled is
// false for the deprecated no-op commands.
func (f *GameControllerFilter) runBranch(cmd input.RefereeCommand, current world.GameState) (world.GameState, bool) {
	switch cmd.Kind {
	case input.CmdHalt:
		f.cancelTimer()
		return world.Halted(world.SubHalt), true

	case input.CmdStop:
		f.cancelTimer()
		return world.Stopped(world.SubStop), true

	case input.CmdNormalStart:
		switch {
		case current.Phase == world.PhaseHalted && current.Sub == world.SubPrepareKickoff:
			f.armTimer(kickoffTouchTimeout)
			return world.RunningFor(world.SubKickOff, current.Team), true
		case current.Phase == world.PhaseHalted && current.Sub == world.SubPreparePenalty:
			f.armTimer(kickoffTouchTimeout)
			return world.RunningFor(world.SubPenalty, current.Team), true
		default:
			return world.Running(world.SubNormalPlay), true
		}

	case input.CmdForceStart:
		f.stateData.KickedOffOnce = true
		return world.Running(world.SubNormalPlay), true

	case input.CmdPrepareKickoff:
		return world.HaltedFor(world.SubPrepareKickoff, cmd.Team), true

	case input.CmdPreparePenalty:
		return world.HaltedFor(world.SubPreparePenalty, cmd.Team), true

	case input.CmdDirectFree:
		f.armTimer(freeKickTimeout)
		return world.RunningFor(world.SubFreeKick, cmd.Team), true

	case input.CmdTimeout:
		f.cancelTimer()
		return world.HaltedFor(world.SubTimeout, cmd.Team), true

	case input.CmdBallPlacement:
		return world.StoppedFor(world.SubBallPlacement, cmd.Team), true

	default:
		// Goal, IndirectFree and Deprecated retain the prior state. One
		// log line per distinct command value.
		once, ok := f.unknownOnce[cmd.Kind]
		if !ok {
			once = &rate.Sometimes{First: 1}
			f.unknownOnce[cmd.Kind] = once
		}
		once.Do(func() {
			telemetry.Warnf("ignoring referee command kind %d", cmd.Kind)
		})
		return current, false
	}
}

// checkTimer releases a timed restart into normal play on expiry.
func (f *GameControllerFilter) checkTimer(w *world.World) {
	if f.deadline == nil || f.Now().Before(*f.deadline) {
		return
	}
	f.cancelTimer()
	w.RefOrders.Update(world.Running(world.SubNormalPlay), w.RefOrders.Event, nil)
	f.stateEntered = f.Now()
}

// checkBallTouch ends a kickoff or free kick as soon as the ball is
// played.
func (f *GameControllerFilter) checkBallTouch(w *world.World) {
	state := w.RefOrders.State
	if state.Phase != world.PhaseRunning {
		return
	}
	if state.Sub != world.SubKickOff && state.Sub != world.SubFreeKick {
		return
	}
	ball := w.Ball
	if ball == nil || ball.LastTouch == nil || !ball.LastTouch.Time.After(f.stateEntered) {
		return
	}
	f.cancelTimer()
	if state.Sub == world.SubKickOff {
		f.stateData.KickedOffOnce = true
	}
	w.RefOrders.Update(world.Running(world.SubNormalPlay), w.RefOrders.Event, nil)
	f.stateEntered = f.Now()
}

func (f *GameControllerFilter) armTimer(d time.Duration) {
	deadline := f.Now().Add(d)
	f.deadline = &deadline
}

func (f *GameControllerFilter) cancelTimer() { f.deadline = nil }
