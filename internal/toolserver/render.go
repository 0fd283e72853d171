package toolserver

import (
	"net/http"
	"sync/atomic"

	"github.com/fogleman/gg"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// Field raster defaults; 100 px per meter keeps text-free drawing crisp.
const (
	renderScale  = 100.0
	renderMargin = 0.3
)

// FieldRenderer rasterizes the latest world snapshot to a PNG on demand,
// for quick eyeballing without the full observer UI.
type FieldRenderer struct {
	latest atomic.Pointer[world.World]
}

// NewFieldRenderer returns an empty renderer.
func NewFieldRenderer() *FieldRenderer { return &FieldRenderer{} }

// Update stores the snapshot the next request will draw.
func (r *FieldRenderer) Update(snapshot *world.World) {
	r.latest.Store(snapshot)
}

// ServeHTTP renders the stored snapshot.
func (r *FieldRenderer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	snapshot := r.latest.Load()
	if snapshot == nil {
		http.Error(w, "no world yet", http.StatusServiceUnavailable)
		return
	}

	g := snapshot.Geometry
	width := int((g.FieldLength + 2*renderMargin) * renderScale)
	height := int((g.FieldWidth + 2*renderMargin) * renderScale)
	dc := gg.NewContext(width, height)

	// field
	dc.SetHexColor("#1c7a32")
	dc.Clear()

	toPx := func(p geom.Vec2) (float64, float64) {
		return (p.X + g.FieldLength/2 + renderMargin) * renderScale,
			(-p.Y + g.FieldWidth/2 + renderMargin) * renderScale
	}

	// boundary, halfway line, center circle
	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(2)
	x0, y0 := toPx(geom.Vec2{X: -g.FieldLength / 2, Y: g.FieldWidth / 2})
	dc.DrawRectangle(x0, y0, g.FieldLength*renderScale, g.FieldWidth*renderScale)
	dc.Stroke()
	hx0, hy0 := toPx(geom.Vec2{X: 0, Y: g.FieldWidth / 2})
	hx1, hy1 := toPx(geom.Vec2{X: 0, Y: -g.FieldWidth / 2})
	dc.DrawLine(hx0, hy0, hx1, hy1)
	dc.Stroke()
	cx, cy := toPx(geom.Vec2{})
	dc.DrawCircle(cx, cy, g.Center.Radius*renderScale)
	dc.Stroke()

	// goals
	for _, goal := range []world.Goal{g.AllyGoal, g.EnemyGoal} {
		gx0, gy0 := toPx(goal.Line.Start)
		gx1, gy1 := toPx(goal.Line.End)
		dc.SetLineWidth(4)
		dc.DrawLine(gx0, gy0, gx1, gy1)
		dc.Stroke()
		dc.SetLineWidth(2)
	}

	// robots
	allyColor, enemyColor := "#2255dd", "#e6c619"
	if snapshot.TeamColor == world.Yellow {
		allyColor, enemyColor = enemyColor, allyColor
	}
	for _, robot := range snapshot.AlliesBot.Values() {
		drawRobot(dc, toPx, robot.Pose, g.RobotRadius, allyColor)
	}
	for _, robot := range snapshot.EnemiesBot.Values() {
		drawRobot(dc, toPx, robot.Pose, g.RobotRadius, enemyColor)
	}

	// ball
	if snapshot.Ball != nil {
		bx, by := toPx(snapshot.Ball.Position2D())
		dc.SetHexColor("#ff6a00")
		dc.DrawCircle(bx, by, g.BallRadius*renderScale*2)
		dc.Fill()
	}

	w.Header().Set("Content-Type", "image/png")
	_ = dc.EncodePNG(w)
}

func drawRobot(dc *gg.Context, toPx func(geom.Vec2) (float64, float64), pose world.Pose, radius float64, color string) {
	x, y := toPx(pose.Position)
	dc.SetHexColor(color)
	dc.DrawCircle(x, y, radius*renderScale)
	dc.Fill()
	// heading tick
	tip := pose.Position.Add(geom.VectorFromAngle(pose.Orientation).Scale(radius * 1.5))
	tx, ty := toPx(tip)
	dc.SetHexColor("#000000")
	dc.DrawLine(x, y, tx, ty)
	dc.Stroke()
}
