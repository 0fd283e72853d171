// Package tool carries the per-tick debug annotations strategies attach
// for the observer UI: lines, points and circles in field coordinates.
package tool

import "sslcoach/internal/geom"

// Annotation is one drawable debug element.
type Annotation struct {
	Kind   string       `json:"kind"` // "line", "point" or "circle"
	Line   *geom.Line   `json:"line,omitempty"`
	Point  *geom.Vec2   `json:"point,omitempty"`
	Circle *geom.Circle `json:"circle,omitempty"`
}

// Data collects annotations for one tick. Keys overwrite, so a strategy
// redrawing the same element each tick does not accumulate entries.
type Data struct {
	Annotations map[string]Annotation `json:"annotations"`
}

// NewData returns an empty annotation set.
func NewData() *Data {
	return &Data{Annotations: make(map[string]Annotation)}
}

// AddLine records a segment under key.
func (d *Data) AddLine(key string, line geom.Line) {
	d.Annotations[key] = Annotation{Kind: "line", Line: &line}
}

// AddPoint records a point under key.
func (d *Data) AddPoint(key string, p geom.Vec2) {
	d.Annotations[key] = Annotation{Kind: "point", Point: &p}
}

// AddCircle records a circle under key.
func (d *Data) AddCircle(key string, c geom.Circle) {
	d.Annotations[key] = Annotation{Kind: "circle", Circle: &c}
}
