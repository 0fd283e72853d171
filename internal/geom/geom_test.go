package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) < eps }

func vecAlmostEqual(a, b Vec2) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

// TestRotateVectorRoundTrip verifies rotating forth and back is identity.
func TestRotateVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		theta float64
	}{
		{"quarter turn", Vec2{1, 0}, math.Pi / 2},
		{"arbitrary", Vec2{3.2, -1.7}, 0.8137},
		{"full turn", Vec2{-2, 5}, 2 * math.Pi},
		{"negative angle", Vec2{0.001, 100}, -1.234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateVector(RotateVector(tt.v, tt.theta), -tt.theta)
			if !vecAlmostEqual(got, tt.v) {
				t.Errorf("round trip of %v by %v = %v", tt.v, tt.theta, got)
			}
		})
	}
}

// TestAngleToPoint checks the orientation helper against known headings.
func TestAngleToPoint(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec2
		want     float64
	}{
		{"east", Vec2{-4, 0}, Vec2{4.5, 0}, 0},
		{"north", Vec2{0, 0}, Vec2{0, 2}, math.Pi / 2},
		{"west", Vec2{1, 1}, Vec2{-1, 1}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleToPoint(tt.from, tt.to); !almostEqual(got, tt.want) {
				t.Errorf("AngleToPoint(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// TestNormalizeAngle verifies mapping into [0, 2pi).
func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); !almostEqual(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestClosestPointOnSegment checks projection and clamping.
func TestClosestPointOnSegment(t *testing.T) {
	line := NewLine(Vec2{0, 0}, Vec2{2, 0})
	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"above middle", Vec2{1, 5}, Vec2{1, 0}},
		{"before start", Vec2{-3, 1}, Vec2{0, 0}},
		{"past end", Vec2{7, -2}, Vec2{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := line.ClosestPointOnSegment(tt.p); !vecAlmostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIntersectionSegments covers crossing, miss and parallel cases.
func TestIntersectionSegments(t *testing.T) {
	a := NewLine(Vec2{-1, 0}, Vec2{1, 0})

	if p, err := a.IntersectionSegments(NewLine(Vec2{0, -1}, Vec2{0, 1})); err != nil {
		t.Fatalf("crossing segments: %v", err)
	} else if !vecAlmostEqual(p, Vec2{0, 0}) {
		t.Errorf("intersection = %v, want origin", p)
	}

	if _, err := a.IntersectionSegments(NewLine(Vec2{5, -1}, Vec2{5, 1})); err == nil {
		t.Error("expected no intersection outside the segment")
	}

	if _, err := a.IntersectionSegments(NewLine(Vec2{-1, 1}, Vec2{1, 1})); err == nil {
		t.Error("expected parallel error")
	}
}

// TestIntersectionSegmentLine treats the other line as infinite.
func TestIntersectionSegmentLine(t *testing.T) {
	seg := NewLine(Vec2{0, 0}, Vec2{0, 10})
	other := NewLine(Vec2{-1, 2}, Vec2{1, 2})
	p, err := seg.IntersectionSegmentLine(other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vecAlmostEqual(p, Vec2{0, 2}) {
		t.Errorf("intersection = %v, want (0,2)", p)
	}
}

// TestCutOffSegment verifies the 0, 1 and 2 piece outcomes.
func TestCutOffSegment(t *testing.T) {
	seg := NewLine(Vec2{0, 0}, Vec2{10, 0})
	tests := []struct {
		name string
		clip Line
		want int
	}{
		{"middle cut", NewLine(Vec2{4, 0}, Vec2{6, 0}), 2},
		{"start cut", NewLine(Vec2{-1, 0}, Vec2{3, 0}), 1},
		{"end cut", NewLine(Vec2{8, 0}, Vec2{12, 0}), 1},
		{"outside", NewLine(Vec2{20, 0}, Vec2{30, 0}), 1},
		{"covers all", NewLine(Vec2{-5, 0}, Vec2{15, 0}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.CutOffSegment(tt.clip)
			if len(got) != tt.want {
				t.Fatalf("got %d pieces, want %d", len(got), tt.want)
			}
			// Pieces must stay inside the original segment and never
			// overlap the clip interior.
			for _, piece := range got {
				for _, p := range []Vec2{piece.Start, piece.End} {
					if p.X < -eps || p.X > 10+eps || !almostEqual(p.Y, 0) {
						t.Errorf("piece endpoint %v escapes the segment", p)
					}
				}
			}
		})
	}
}

// TestCutOffSegmentMiddleLengths pins down the split around a middle clip.
func TestCutOffSegmentMiddleLengths(t *testing.T) {
	seg := NewLine(Vec2{0, 0}, Vec2{10, 0})
	pieces := seg.CutOffSegment(NewLine(Vec2{4, 0}, Vec2{6, 0}))
	if len(pieces) != 2 {
		t.Fatalf("got %d pieces", len(pieces))
	}
	if !almostEqual(pieces[0].Norm(), 4) || !almostEqual(pieces[1].Norm(), 4) {
		t.Errorf("piece lengths %v and %v, want 4 and 4", pieces[0].Norm(), pieces[1].Norm())
	}
}

// TestCircleContains checks boundary inclusion.
func TestCircleContains(t *testing.T) {
	c := Circle{Center: Vec2{1, 1}, Radius: 2}
	if !c.Contains(Vec2{1, 3}) {
		t.Error("boundary point should be inside")
	}
	if c.Contains(Vec2{1, 3.001}) {
		t.Error("outside point reported inside")
	}
}

// TestRectContains checks the min-corner anchored rectangle.
func TestRectContains(t *testing.T) {
	r := NewRect(3, 3, Vec2{0, 0})
	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{1, 1}, true},
		{Vec2{0, 0}, true},
		{Vec2{4, 4}, false},
		{Vec2{-1, 2}, false},
		{Vec2{2, -1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
