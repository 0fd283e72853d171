package geom

// Circle is a circle in field coordinates.
type Circle struct {
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Vec2) bool {
	return c.Center.DistanceTo(p) <= c.Radius
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Position Vec2    `json:"position"`
}

// NewRect builds a rectangle of the given size anchored at position.
func NewRect(width, height float64, position Vec2) Rect {
	return Rect{Width: width, Height: height, Position: position}
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Vec2) bool {
	x := p.X - r.Position.X
	y := p.Y - r.Position.Y
	return x >= 0 && x <= r.Width && y >= 0 && y <= r.Height
}
