package world

import "sslcoach/internal/geom"

// Goal is one of the two goals. Line is the goal segment on the field
// boundary, the one shoot-window clipping works against.
type Goal struct {
	Width float64   `json:"width"`
	Depth float64   `json:"depth"`
	Line  geom.Line `json:"line"`
}

// Center returns the goal line midpoint.
func (g Goal) Center() geom.Vec2 { return g.Line.Center() }

// Penalty is a penalty area in front of a goal.
type Penalty struct {
	Width float64   `json:"width"`
	Depth float64   `json:"depth"`
	Area  geom.Rect `json:"area"`
}

// Contains reports whether p lies inside the penalty area.
func (p Penalty) Contains(pt geom.Vec2) bool { return p.Area.Contains(pt) }

// Geometry describes the field. All values in meters; the ally goal sits at
// negative x once the side filter has normalized the world.
type Geometry struct {
	FieldLength  float64     `json:"fieldLength"`
	FieldWidth   float64     `json:"fieldWidth"`
	AllyGoal     Goal        `json:"allyGoal"`
	EnemyGoal    Goal        `json:"enemyGoal"`
	AllyPenalty  Penalty     `json:"allyPenalty"`
	EnemyPenalty Penalty     `json:"enemyPenalty"`
	Center       geom.Circle `json:"center"`
	RobotRadius  float64     `json:"robotRadius"`
	BallRadius   float64     `json:"ballRadius"`
}

// DefaultGeometry returns a division B field (9x6 m, 1 m goals) used until
// the first vision geometry frame arrives.
func DefaultGeometry() Geometry {
	const (
		length       = 9.0
		width        = 6.0
		goalWidth    = 1.0
		goalDepth    = 0.18
		penaltyWidth = 2.0
		penaltyDepth = 1.0
	)
	half := length / 2
	return Geometry{
		FieldLength: length,
		FieldWidth:  width,
		AllyGoal: Goal{
			Width: goalWidth,
			Depth: goalDepth,
			Line:  geom.NewLine(geom.Vec2{X: -half, Y: -goalWidth / 2}, geom.Vec2{X: -half, Y: goalWidth / 2}),
		},
		EnemyGoal: Goal{
			Width: goalWidth,
			Depth: goalDepth,
			Line:  geom.NewLine(geom.Vec2{X: half, Y: -goalWidth / 2}, geom.Vec2{X: half, Y: goalWidth / 2}),
		},
		AllyPenalty: Penalty{
			Width: penaltyWidth,
			Depth: penaltyDepth,
			Area:  geom.NewRect(penaltyDepth, penaltyWidth, geom.Vec2{X: -half, Y: -penaltyWidth / 2}),
		},
		EnemyPenalty: Penalty{
			Width: penaltyWidth,
			Depth: penaltyDepth,
			Area:  geom.NewRect(penaltyDepth, penaltyWidth, geom.Vec2{X: half - penaltyDepth, Y: -penaltyWidth / 2}),
		},
		Center:      geom.Circle{Radius: 0.5},
		RobotRadius: 0.09,
		BallRadius:  0.0215,
	}
}
