// Package bounds computes content bounding boxes from node coordinates and a
// fixed card geometry.
//
// Bounds are derived purely from layout coordinates, never from measured
// output, so they can be computed before anything is drawn and stay valid
// across viewport changes.
package bounds

import "math"

// Point is a node centre in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box in layout space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Unit is returned for an empty point set.
var Unit = Rect{X: 0, Y: 0, Width: 1, Height: 1}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the centre point.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether o lies entirely inside r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Card is the fixed footprint of a node's visual card relative to its centre.
// The card spans x ± Width/2 horizontally and [y+OffsetY, y+OffsetY+Height]
// vertically.
type Card struct {
	Width   float64 `json:"width" toml:"width"`
	Height  float64 `json:"height" toml:"height"`
	OffsetY float64 `json:"offset_y" toml:"offset_y"`
}

// Rect returns the card rectangle of a node centred at p.
func (c Card) Rect(p Point) Rect {
	return Rect{
		X:      p.X - c.Width/2,
		Y:      p.Y + c.OffsetY,
		Width:  c.Width,
		Height: c.Height,
	}
}

// Compute returns the union of the card rectangles of all points. An empty
// point set yields [Unit].
func Compute(points []Point, cardWidth, cardHeight, verticalOffset float64) Rect {
	return ComputeCard(points, Card{Width: cardWidth, Height: cardHeight, OffsetY: verticalOffset})
}

// ComputeCard is Compute with the geometry bundled in a Card.
func ComputeCard(points []Point, card Card) Rect {
	if len(points) == 0 {
		return Unit
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		x0 := p.X - card.Width/2
		x1 := p.X + card.Width/2
		y0 := p.Y + card.OffsetY
		y1 := y0 + card.Height
		minX = math.Min(minX, x0)
		maxX = math.Max(maxX, x1)
		minY = math.Min(minY, y0)
		maxY = math.Max(maxY, y1)
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
