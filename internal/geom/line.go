package geom

import (
	"errors"
	"math"
)

var (
	// ErrParallel is returned when two lines never cross.
	ErrParallel = errors.New("geom: lines are parallel")
	// ErrNoIntersection is returned when segments cross outside their bounds.
	ErrNoIntersection = errors.New("geom: no intersection inside segment")
)

// Line is a segment between two points. Several methods also treat it as
// the infinite line through those points; their names say which.
type Line struct {
	Start Vec2 `json:"start"`
	End   Vec2 `json:"end"`
}

// NewLine builds a segment from start to end.
func NewLine(start, end Vec2) Line { return Line{Start: start, End: end} }

// Center returns the segment midpoint.
func (l Line) Center() Vec2 {
	return Vec2{(l.Start.X + l.End.X) / 2, (l.Start.Y + l.End.Y) / 2}
}

// Norm returns the segment length.
func (l Line) Norm() float64 { return l.End.Sub(l.Start).Norm() }

// Direction returns the unit vector from start to end.
func (l Line) Direction() Vec2 { return l.End.Sub(l.Start).Normalize() }

// ClosestPointOnLine projects p on the infinite line through the segment.
func (l Line) ClosestPointOnLine(p Vec2) Vec2 {
	d := l.End.Sub(l.Start)
	len2 := d.Dot(d)
	if len2 == 0 {
		return l.Start
	}
	t := p.Sub(l.Start).Dot(d) / len2
	return l.Start.Add(d.Scale(t))
}

// ClosestPointOnSegment projects p on the segment, clamped to [start, end].
func (l Line) ClosestPointOnSegment(p Vec2) Vec2 {
	d := l.End.Sub(l.Start)
	len2 := d.Dot(d)
	if len2 == 0 {
		return l.Start
	}
	t := p.Sub(l.Start).Dot(d) / len2
	t = math.Max(0, math.Min(1, t))
	return l.Start.Add(d.Scale(t))
}

// DistanceToPoint returns the distance from p to the segment.
func (l Line) DistanceToPoint(p Vec2) float64 {
	return l.ClosestPointOnSegment(p).DistanceTo(p)
}

// IntersectionSegments intersects two segments. Both crossing points must
// lie inside their respective segments.
func (l Line) IntersectionSegments(other Line) (Vec2, error) {
	return l.intersect(other, true, true)
}

// IntersectionSegmentLine treats the receiver as a segment and other as an
// infinite line.
func (l Line) IntersectionSegmentLine(other Line) (Vec2, error) {
	return l.intersect(other, true, false)
}

// IntersectionLineSegment treats the receiver as an infinite line and other
// as a segment.
func (l Line) IntersectionLineSegment(other Line) (Vec2, error) {
	return l.intersect(other, false, true)
}

func (l Line) intersect(other Line, boundSelf, boundOther bool) (Vec2, error) {
	r := l.End.Sub(l.Start)
	s := other.End.Sub(other.Start)
	denom := r.Cross(s)
	if denom == 0 {
		return Vec2{}, ErrParallel
	}
	qp := other.Start.Sub(l.Start)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if boundSelf && (t < 0 || t > 1) {
		return Vec2{}, ErrNoIntersection
	}
	if boundOther && (u < 0 || u > 1) {
		return Vec2{}, ErrNoIntersection
	}
	return l.Start.Add(r.Scale(t)), nil
}

// CutOffSegment subtracts clip from the segment and returns the 0 to 2
// remaining pieces. Both segments are assumed collinear; clip endpoints are
// projected on the receiver, so a slightly off-line clip still works. Used
// to carve enemy shadows out of the goal line.
func (l Line) CutOffSegment(clip Line) []Line {
	d := l.End.Sub(l.Start)
	len2 := d.Dot(d)
	if len2 == 0 {
		return nil
	}
	t0 := clip.Start.Sub(l.Start).Dot(d) / len2
	t1 := clip.End.Sub(l.Start).Dot(d) / len2
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	// clip interval clamped to the segment
	t0 = math.Max(0, t0)
	t1 = math.Min(1, t1)

	var out []Line
	if t1 <= 0 || t0 >= 1 || t0 >= t1 {
		// clip entirely outside, nothing removed
		return []Line{l}
	}
	if t0 > 0 {
		out = append(out, Line{Start: l.Start, End: l.Start.Add(d.Scale(t0))})
	}
	if t1 < 1 {
		out = append(out, Line{Start: l.Start.Add(d.Scale(t1)), End: l.End})
	}
	return out
}
