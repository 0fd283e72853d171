package filter

import (
	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// RobotFilter publishes tracked robot estimates into the world and merges
// the base-station feedback into the allies. Tracked robots are never
// destroyed; absence shows as a stale timestamp.
type RobotFilter struct{}

func (RobotFilter) Step(d *Data, w *world.World) {
	for id, tracked := range d.Allies {
		robot := tracked.Data
		if fb, ok := d.Feedback[id]; ok {
			robot.HasBall = fb.HasBall
			robot.Info.Voltage = fb.Voltage
		}
		w.AlliesBot[id] = &robot
	}
	for id, tracked := range d.Enemies {
		robot := tracked.Data
		w.EnemiesBot[id] = &robot
	}
}

// GeometryFilter folds the latest vision geometry frame into the world's
// field model, rebuilding the derived segments and areas.
type GeometryFilter struct{}

func (GeometryFilter) Step(d *Data, w *world.World) {
	g := d.Geometry
	if g == nil || g.FieldLength <= 0 || g.FieldWidth <= 0 {
		return
	}
	half := g.FieldLength / 2
	goalWidth := g.GoalWidth
	if goalWidth <= 0 {
		goalWidth = w.Geometry.AllyGoal.Width
	}
	penaltyWidth, penaltyDepth := g.PenaltyWidth, g.PenaltyDepth
	if penaltyWidth <= 0 {
		penaltyWidth = w.Geometry.AllyPenalty.Width
	}
	if penaltyDepth <= 0 {
		penaltyDepth = w.Geometry.AllyPenalty.Depth
	}

	w.Geometry.FieldLength = g.FieldLength
	w.Geometry.FieldWidth = g.FieldWidth
	w.Geometry.AllyGoal = world.Goal{
		Width: goalWidth,
		Depth: g.GoalDepth,
		Line:  geom.NewLine(geom.Vec2{X: -half, Y: -goalWidth / 2}, geom.Vec2{X: -half, Y: goalWidth / 2}),
	}
	w.Geometry.EnemyGoal = world.Goal{
		Width: goalWidth,
		Depth: g.GoalDepth,
		Line:  geom.NewLine(geom.Vec2{X: half, Y: -goalWidth / 2}, geom.Vec2{X: half, Y: goalWidth / 2}),
	}
	w.Geometry.AllyPenalty = world.Penalty{
		Width: penaltyWidth,
		Depth: penaltyDepth,
		Area:  geom.NewRect(penaltyDepth, penaltyWidth, geom.Vec2{X: -half, Y: -penaltyWidth / 2}),
	}
	w.Geometry.EnemyPenalty = world.Penalty{
		Width: penaltyWidth,
		Depth: penaltyDepth,
		Area:  geom.NewRect(penaltyDepth, penaltyWidth, geom.Vec2{X: half - penaltyDepth, Y: -penaltyWidth / 2}),
	}
}
