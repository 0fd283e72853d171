// Package filter folds raw per-camera packets into tracked entities and
// derives the per-tick World: smoothing, side normalization, possession,
// and the referee-driven game-state machine.
package filter

import (
	"time"

	"sslcoach/internal/input"
	"sslcoach/internal/ringbuf"
	"sslcoach/internal/world"
)

// PacketRingCapacity bounds the per-entity detection window.
const PacketRingCapacity = 50

// TrackedRobot keeps a robot's latest estimate plus the recent raw
// detections the filters smooth over.
type TrackedRobot[T any] struct {
	Data       world.Robot[T]
	Packets    *ringbuf.Ring[input.CamRobot]
	LastUpdate time.Time
}

func newTrackedRobot[T any](id world.RobotID) *TrackedRobot[T] {
	return &TrackedRobot[T]{
		Data:    world.Robot[T]{ID: id},
		Packets: ringbuf.New[input.CamRobot](PacketRingCapacity),
	}
}

// TrackedBall is the ball's tracked entity. A nil TrackedBall means no
// detection has arrived yet, or the passthrough filter found its ring empty.
type TrackedBall struct {
	Data       world.Ball
	Packets    *ringbuf.Ring[input.CamBall]
	LastUpdate time.Time
}

func newTrackedBall() *TrackedBall {
	return &TrackedBall{Packets: ringbuf.New[input.CamBall](PacketRingCapacity)}
}

// Data is the filter stage's private state. Rings are never exposed
// outside the stage.
type Data struct {
	Allies   map[world.RobotID]*TrackedRobot[world.AllyInfo]
	Enemies  map[world.RobotID]*TrackedRobot[world.EnemyInfo]
	Ball     *TrackedBall
	Geometry *input.CamGeometry
	Referee  []input.RefereePacket
	Feedback map[world.RobotID]input.Feedback

	// BallSeenThisTick is true when at least one ball detection arrived
	// in the current tick's bundle. The ball post-filter uses it to decide
	// when the ball has gone absent.
	BallSeenThisTick bool
}

// NewData returns an empty filter state.
func NewData() *Data {
	return &Data{
		Allies:   make(map[world.RobotID]*TrackedRobot[world.AllyInfo]),
		Enemies:  make(map[world.RobotID]*TrackedRobot[world.EnemyInfo]),
		Feedback: make(map[world.RobotID]input.Feedback),
	}
}
