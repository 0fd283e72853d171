package world

import "sslcoach/internal/geom"

// Speed limits per phase, in m/s. The running limit is not set by the
// rulebook; it only has to exceed what the robots can do.
const (
	MaxSpeedHalted  = 0.0
	MaxSpeedStopped = 1.5
	MaxSpeedRunning = 6.0
)

// MinDistFromBallStopped is the keep-away radius enforced under Stop.
const MinDistFromBallStopped = 1.5

// GameEvent is the last event reported by the game controller. Only the
// type is consumed; the raw payload stays with the receiver.
type GameEvent struct {
	Type string `json:"type"`
}

// RefereeOrders is what the game controller currently requires of us:
// internal state, speed limit and ball keep-away distance.
// MinDistFromBall is 0 when no keep-away applies.
type RefereeOrders struct {
	State              GameState  `json:"state"`
	Event              *GameEvent `json:"event,omitempty"`
	SpeedLimit         float64    `json:"speedLimit"`
	MinDistFromBall    float64    `json:"minDistFromBall"`
	DesignatedPosition *geom.Vec2 `json:"designatedPosition,omitempty"`
}

// SpeedLimitDuring returns the speed cap for a game state.
func SpeedLimitDuring(s GameState) float64 {
	switch s.Phase {
	case PhaseHalted:
		return MaxSpeedHalted
	case PhaseStopped:
		return MaxSpeedStopped
	default:
		return MaxSpeedRunning
	}
}

// MinDistFromBallDuring returns the keep-away distance for a game state,
// 0 when none applies.
func MinDistFromBallDuring(s GameState) float64 {
	if s.Phase == PhaseStopped {
		return MinDistFromBallStopped
	}
	return 0
}

// Update rewrites the orders for a new state, deriving the limits from it.
func (o *RefereeOrders) Update(s GameState, event *GameEvent, designated *geom.Vec2) {
	o.State = s
	o.SpeedLimit = SpeedLimitDuring(s)
	o.MinDistFromBall = MinDistFromBallDuring(s)
	o.Event = event
	o.DesignatedPosition = designated
}

// DefaultRefereeOrders is the pre-kickoff state before any referee packet.
func DefaultRefereeOrders() RefereeOrders {
	return RefereeOrders{
		State:      Halted(SubGameNotStarted),
		SpeedLimit: MaxSpeedHalted,
	}
}
