// Package input accumulates decoded sensor records into an inbound bundle
// the filter stage drains once per tick. Receivers run on their own
// goroutines with short blocking reads; the main loop never blocks on I/O.
package input

import (
	"time"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// CamRobot is one robot detection from one camera. Positions are in
// meters (the decoder divides the millimeter wire values by 1000).
type CamRobot struct {
	ID          world.RobotID
	CameraID    uint32
	FrameNumber uint32
	Position    geom.Vec2
	Orientation float64
	Time        time.Time
}

// CamBall is one ball detection from one camera.
type CamBall struct {
	CameraID    uint32
	FrameNumber uint32
	Position    geom.Vec3
	Time        time.Time
}

// CamFrame is a decoded vision detection frame.
type CamFrame struct {
	CameraID     uint32
	FrameNumber  uint32
	TCapture     time.Time
	RobotsBlue   []CamRobot
	RobotsYellow []CamRobot
	Balls        []CamBall
}

// CamGeometry is a decoded vision geometry frame (field dimensions in meters).
type CamGeometry struct {
	FieldLength  float64
	FieldWidth   float64
	GoalWidth    float64
	GoalDepth    float64
	PenaltyWidth float64
	PenaltyDepth float64
}

// RefereeCommandKind enumerates the referee protocol commands we act on.
type RefereeCommandKind uint8

const (
	CmdHalt RefereeCommandKind = iota
	CmdStop
	CmdNormalStart
	CmdForceStart
	CmdPrepareKickoff
	CmdPreparePenalty
	CmdDirectFree
	CmdIndirectFree
	CmdTimeout
	CmdGoal
	CmdBallPlacement
	CmdDeprecated
)

// RefereeCommand is a referee command plus the team it concerns (zero for
// team-less commands like Halt).
type RefereeCommand struct {
	Kind RefereeCommandKind
	Team world.TeamColor
}

// TeamInfo is the per-team block of a referee packet.
type TeamInfo struct {
	Name  string
	Score uint32
}

// RefereePacket is a decoded game-controller packet, already normalized so
// Ally always refers to our team regardless of wire ordering.
type RefereePacket struct {
	Command            RefereeCommand
	NextCommand        *RefereeCommand
	Ally               TeamInfo
	Enemy              TeamInfo
	DesignatedPosition *geom.Vec2
	PositiveHalf       *world.TeamColor
	GameEvents         []world.GameEvent
}

// Feedback is what a robot reports back through the base station.
type Feedback struct {
	RobotID world.RobotID
	HasBall bool
	Voltage float32
}

// Data is the inbound bundle drained by the filter stage each tick.
type Data struct {
	Vision   []CamFrame
	Geometry []CamGeometry
	Referee  []RefereePacket
	Feedback map[world.RobotID]Feedback
}

// NewData returns an empty bundle.
func NewData() *Data {
	return &Data{Feedback: make(map[world.RobotID]Feedback)}
}
