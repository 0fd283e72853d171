package world

import (
	"time"

	"sslcoach/internal/geom"
)

// Touch records the last robot believed to have touched the ball.
type Touch struct {
	ID       RobotID   `json:"id"`
	Team     TeamColor `json:"team"`
	Time     time.Time `json:"time"`
	Position geom.Vec2 `json:"position"`
}

// Ball is the tracked ball. A nil *Ball in World means no recent detection.
type Ball struct {
	Position     geom.Vec3  `json:"position"`
	Velocity     geom.Vec3  `json:"velocity"`
	Acceleration geom.Vec3  `json:"acceleration"`
	Timestamp    time.Time  `json:"timestamp"`
	Possession   *TeamColor `json:"possession,omitempty"`
	LastTouch    *Touch     `json:"lastTouch,omitempty"`
}

// Position2D projects the ball on the field plane.
func (b *Ball) Position2D() geom.Vec2 { return b.Position.XY() }

// Velocity2D projects the ball velocity on the field plane.
func (b *Ball) Velocity2D() geom.Vec2 { return b.Velocity.XY() }
