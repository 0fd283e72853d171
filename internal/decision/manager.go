package decision

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/metrics"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// attackerHandoffDist is how far the current ball carrier must be from the
// ball before a closer teammate takes the role over.
const attackerHandoffDist = 1.2

// Manager owns the live strategies and keeps every robot in exactly one.
type Manager interface {
	Step(w *world.World, tools *tool.Data, aw *ActionWrapper)
}

// Dispatcher is the match manager: it repartitions robots between
// strategies every tick from possession and geometry, routes the
// strategies' messages, then steps them in insertion order.
type Dispatcher struct {
	strategies []Strategy
}

// NewDispatcher starts with the pinned goalkeeper.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{strategies: []Strategy{NewGoalKeeper(KeeperID)}}
}

// Strategies exposes the live set for tests and the observer.
func (d *Dispatcher) Strategies() []Strategy { return d.strategies }

// Step runs one decision tick.
func (d *Dispatcher) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) {
	d.ensureKeeper()

	if ball := w.Ball; ball != nil {
		state := w.RefOrders.State
		switch {
		case state.Phase == world.PhaseHalted && (state.Sub == world.SubPrepareKickoff || state.Sub == world.SubPreparePenalty):
			d.ensurePrepare(w, state)
		case state.Sub == world.SubBallPlacement && state.Team != w.TeamColor:
			d.ensureBallPlacement(w)
		default:
			d.assign(w, ball)
		}
	}
	d.enforcePartition()

	// Mailbox pass: collect everything first, then process, so strategy
	// mutation cannot race the drain.
	var mailbox []MessageData
	for _, s := range d.strategies {
		mailbox = append(mailbox, s.TakeMessages()...)
	}
	d.processMessages(mailbox)

	kept := d.strategies[:0]
	for _, s := range d.strategies {
		done := s.Step(w, tools, aw)
		if s.Name() == "GoalKeeper" {
			kept = append(kept, s)
			continue
		}
		if done || len(s.GetIDs()) == 0 {
			continue
		}
		kept = append(kept, s)
	}
	d.strategies = kept
	metrics.UpdateStrategies(len(d.strategies))
}

// ensureKeeper keeps the goalkeeper strategy alive and pinned to KeeperID.
func (d *Dispatcher) ensureKeeper() {
	idx := d.findStrategy("GoalKeeper")
	if idx < 0 {
		d.releaseID(KeeperID)
		d.strategies = append([]Strategy{NewGoalKeeper(KeeperID)}, d.strategies...)
		return
	}
	ids := d.strategies[idx].GetIDs()
	if len(ids) != 1 || ids[0] != KeeperID {
		d.strategies[idx].PutIDs([]world.RobotID{KeeperID})
	}
}

// assign repartitions the non-reserved robots between attack and defense.
func (d *Dispatcher) assign(w *world.World, ball *world.Ball) {
	ballPos := ball.Position2D()

	// The wall is sticky: only built when missing. Neither the ally
	// closest to the ball nor the current ball-carrier role may be
	// drafted; they carry the attack or the contest.
	wallIDs := d.wallIDs()
	if wallIDs == nil {
		exclude := []world.RobotID{KeeperID}
		nonKeeper := world.FilterRobotsNotInIDs(w.AlliesBot.Values(), exclude)
		if carrier := world.ClosestRobot(nonKeeper, ballPos); carrier != nil {
			exclude = append(exclude, carrier.ID)
		}
		for _, name := range []string{"Attacker", "BotContesting"} {
			if idx := d.findStrategy(name); idx >= 0 {
				exclude = append(exclude, d.strategies[idx].GetIDs()...)
			}
		}
		candidates := world.FilterRobotsNotInIDs(
			world.ClosestRobots(w.AlliesBot.Values(), w.Geometry.AllyGoal.Center()),
			exclude)
		if len(candidates) > 2 {
			candidates = candidates[:2]
		}
		if len(candidates) > 0 {
			for _, r := range candidates {
				wallIDs = append(wallIDs, r.ID)
			}
			// Seed the wall with the first robot only; the second is
			// appended by the move, so no id is listed twice.
			wall := NewDefenseWall(wallIDs[:1])
			d.moveBotToNewStrategy(wallIDs[0], wall)
			if len(wallIDs) > 1 {
				if idx := d.indexOf(wall); idx >= 0 {
					d.moveBotToExistingStrategy(wallIDs[1], idx)
				}
			}
		}
	}
	reserved := append(append([]world.RobotID{}, wallIDs...), KeeperID)

	enemyPossession := ball.Possession != nil && *ball.Possession != w.TeamColor
	if enemyPossession {
		d.assignDefense(w, ballPos)
	} else {
		d.assignAttack(w, ballPos, reserved)
	}
}

func (d *Dispatcher) assignAttack(w *world.World, ballPos geom.Vec2, reserved []world.RobotID) {
	candidates := world.FilterRobotsNotInIDs(
		world.ClosestRobots(w.AlliesBot.Values(), ballPos), reserved)

	if idx := d.findStrategy("Attacker"); idx >= 0 {
		attackerID := d.strategies[idx].GetIDs()[0]
		if robot, ok := w.AlliesBot[attackerID]; ok {
			needsHandoff := len(candidates) > 0 &&
				candidates[0].ID != attackerID &&
				robot.Distance(ballPos) > attackerHandoffDist
			if !needsHandoff {
				d.assignMarkers(w, world.FilterRobotsNotInIDs(candidates, []world.RobotID{attackerID}))
				return
			}
		}
	}
	if len(candidates) > 0 {
		newID := candidates[0].ID
		d.moveBotToNewStrategy(newID, NewAttacker(newID))
		d.assignMarkers(w, candidates[1:])
	}
}

func (d *Dispatcher) assignDefense(w *world.World, ballPos geom.Vec2) {
	behind := world.FilterRobotsNotInIDs(
		world.ClosestRobots(world.FilterRobotsBehindPoint(w.AlliesBot.Values(), ballPos), ballPos),
		[]world.RobotID{KeeperID})

	if idx := d.findStrategy("BotContesting"); idx >= 0 {
		contestingID := d.strategies[idx].GetIDs()[0]
		if robot, ok := w.AlliesBot[contestingID]; ok {
			needsHandoff := len(behind) > 0 &&
				behind[0].ID != contestingID &&
				robot.Distance(ballPos) > attackerHandoffDist
			if !needsHandoff {
				d.assignMarkers(w, world.FilterRobotsNotInIDs(behind, []world.RobotID{contestingID}))
				return
			}
		}
	}
	if len(behind) > 0 {
		newID := behind[0].ID
		d.moveBotToNewStrategy(newID, NewBotContesting(newID))
		d.assignMarkers(w, behind[1:])
	}
}

// assignMarkers pairs each remaining ally with the nearest unmarked enemy.
// The enemy keeper is never worth marking.
func (d *Dispatcher) assignMarkers(w *world.World, markers []*world.Robot[world.AllyInfo]) {
	var marked []world.RobotID
	if keeperID, ok := w.EnemyKeeperID(); ok {
		marked = append(marked, keeperID)
	}
	for _, ally := range markers {
		targets := world.FilterRobotsNotInIDs(
			world.ClosestRobots(w.EnemiesBot.Values(), ally.Pose.Position), marked)
		if len(targets) == 0 {
			continue
		}
		marked = append(marked, targets[0].ID)
		d.moveBotToNewStrategy(ally.ID, NewBotMarking(ally.ID, targets[0].ID))
	}
}

// ensurePrepare puts every field robot in the kickoff/penalty formation.
func (d *Dispatcher) ensurePrepare(w *world.World, state world.GameState) {
	if d.findStrategy("PrepareKickOff") >= 0 {
		return
	}
	ids := d.fieldRobotIDs(w)
	if len(ids) == 0 {
		return
	}
	formation := NewPrepareKickOff(ids, state.Team == w.TeamColor)
	d.adoptFormation(ids, formation)
}

// ensureBallPlacement clears the placement corridor while the enemy
// places the ball.
func (d *Dispatcher) ensureBallPlacement(w *world.World) {
	if d.findStrategy("MoveAwayBallPlacement") >= 0 {
		return
	}
	if w.RefOrders.DesignatedPosition == nil {
		return
	}
	ids := d.fieldRobotIDs(w)
	if len(ids) == 0 {
		return
	}
	formation := NewMoveAwayBallPlacement(ids, *w.RefOrders.DesignatedPosition)
	d.adoptFormation(ids, formation)
}

// fieldRobotIDs lists the present allies except the keeper.
func (d *Dispatcher) fieldRobotIDs(w *world.World) []world.RobotID {
	var ids []world.RobotID
	for _, r := range w.AlliesBot.Values() {
		if r.ID != KeeperID {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// adoptFormation moves every id into the formation strategy.
func (d *Dispatcher) adoptFormation(ids []world.RobotID, formation Strategy) {
	d.moveBotToNewStrategy(ids[0], formation)
	idx := d.indexOf(formation)
	if idx < 0 {
		return
	}
	for _, id := range ids[1:] {
		d.moveBotToExistingStrategy(id, idx)
		idx = d.indexOf(formation)
		if idx < 0 {
			return
		}
	}
	formation.PutIDs(ids)
}

// processMessages applies the strategies' requests, mutating the set.
func (d *Dispatcher) processMessages(mailbox []MessageData) {
	for _, m := range mailbox {
		switch msg := m.Message.(type) {
		case WantToGoRight:
			d.moveBotToNewStrategy(m.ID, NewGoRight(m.ID))
		case WantToGoLeft:
			d.moveBotToNewStrategy(m.ID, NewGoLeft(m.ID))
		case WantToBeAligned:
			if idx := d.findStrategy("Aligned"); idx >= 0 {
				d.moveBotToExistingStrategy(m.ID, idx)
			} else {
				d.moveBotToNewStrategy(m.ID, NewAligned([]world.RobotID{m.ID}))
			}
		case WantToPassBallTo:
			if msg.Target == KeeperID {
				continue
			}
			d.moveBotToNewStrategy(msg.Target, NewReceiver(msg.Target, m.ID, msg.Line))
		case BallPassed:
			d.moveBotToNewStrategy(msg.Target, NewAttacker(msg.Target))
		case NoNeedReceiver:
			if idx := d.findStrategy("Receiver"); idx >= 0 {
				d.removeStrategy(idx)
			}
		}
	}
}

// moveBotToNewStrategy reassigns id to a fresh strategy. When id was alone
// in its old strategy the new one takes the old slot, keeping order.
func (d *Dispatcher) moveBotToNewStrategy(id world.RobotID, s Strategy) {
	idx := d.strategyOf(id)
	if idx < 0 {
		d.strategies = append(d.strategies, s)
		return
	}
	ids := removeID(d.strategies[idx].GetIDs(), id)
	if len(ids) == 0 {
		d.strategies[idx] = s
	} else {
		d.strategies[idx].PutIDs(ids)
		d.strategies = append(d.strategies, s)
	}
}

// moveBotToExistingStrategy appends id to strategies[idx], removing it
// from its previous owner first.
func (d *Dispatcher) moveBotToExistingStrategy(id world.RobotID, idx int) {
	prev := -1
	for i, s := range d.strategies {
		if i != idx && containsID(s.GetIDs(), id) {
			prev = i
			break
		}
	}
	d.strategies[idx].PutIDs(append(d.strategies[idx].GetIDs(), id))
	if prev < 0 {
		return
	}
	ids := removeID(d.strategies[prev].GetIDs(), id)
	if len(ids) == 0 {
		d.removeStrategy(prev)
	} else {
		d.strategies[prev].PutIDs(ids)
	}
}

// releaseID detaches id from whatever strategy owns it.
func (d *Dispatcher) releaseID(id world.RobotID) {
	idx := d.strategyOf(id)
	if idx < 0 {
		return
	}
	ids := removeID(d.strategies[idx].GetIDs(), id)
	if len(ids) == 0 {
		d.removeStrategy(idx)
	} else {
		d.strategies[idx].PutIDs(ids)
	}
}

// enforcePartition drops any strategy claiming an id an earlier strategy
// already owns, marking as it checks so a duplicate inside one strategy's
// own list is caught too. Logged, never fatal.
func (d *Dispatcher) enforcePartition() {
	seen := make(map[world.RobotID]bool)
	kept := d.strategies[:0]
	for _, s := range d.strategies {
		ids := s.GetIDs()
		duplicate := false
		claimed := make([]world.RobotID, 0, len(ids))
		for _, id := range ids {
			if seen[id] {
				duplicate = true
				break
			}
			seen[id] = true
			claimed = append(claimed, id)
		}
		if duplicate {
			// Release what this strategy claimed before the clash.
			for _, id := range claimed {
				delete(seen, id)
			}
			telemetry.Errorf("dropping strategy %s: duplicate robot ownership", s.Name())
			continue
		}
		kept = append(kept, s)
	}
	d.strategies = kept
}

func (d *Dispatcher) findStrategy(name string) int {
	for i, s := range d.strategies {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) indexOf(s Strategy) int {
	for i, cur := range d.strategies {
		if cur == s {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) strategyOf(id world.RobotID) int {
	for i, s := range d.strategies {
		if containsID(s.GetIDs(), id) {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) wallIDs() []world.RobotID {
	idx := d.findStrategy("DefenseWall")
	if idx < 0 {
		return nil
	}
	return d.strategies[idx].GetIDs()
}

func (d *Dispatcher) removeStrategy(idx int) {
	d.strategies = append(d.strategies[:idx], d.strategies[idx+1:]...)
}

func containsID(ids []world.RobotID, id world.RobotID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []world.RobotID, id world.RobotID) []world.RobotID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
