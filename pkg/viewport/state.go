package viewport

import (
	"math"

	"github.com/matzehuels/familytree/pkg/bounds"
)

// Size is the on-screen size of the viewport in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// normalized replaces non-positive dimensions with 1 so a collapsed
// container never yields a zero or negative scale.
func (s Size) normalized() Size {
	if !(s.Width > 0) {
		s.Width = 1
	}
	if !(s.Height > 0) {
		s.Height = 1
	}
	return s
}

// Center returns the viewport centre in screen coordinates.
func (s Size) Center() bounds.Point { return bounds.Point{X: s.Width / 2, Y: s.Height / 2} }

// Range is a closed scale interval.
type Range struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// IsZero reports whether r is unset.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Clamp limits v to r.
func (r Range) Clamp(v float64) float64 { return math.Max(r.Min, math.Min(r.Max, v)) }

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Intersect returns the overlap of r and o. When they are disjoint the result
// collapses to the bound of o nearest to r.
func (r Range) Intersect(o Range) Range {
	lo, hi := math.Max(r.Min, o.Min), math.Min(r.Max, o.Max)
	if lo > hi {
		v := o.Clamp(r.Min)
		return Range{Min: v, Max: v}
	}
	return Range{Min: lo, Max: hi}
}

// State is a pan/zoom transform.
type State struct {
	Scale float64 `json:"k"`
	TX    float64 `json:"x"`
	TY    float64 `json:"y"`
}

// Identity is the untransformed state.
var Identity = State{Scale: 1}

// Apply maps a layout point to the screen.
func (s State) Apply(p bounds.Point) bounds.Point {
	return bounds.Point{X: p.X*s.Scale + s.TX, Y: p.Y*s.Scale + s.TY}
}

// Invert maps a screen point back to layout space.
func (s State) Invert(p bounds.Point) bounds.Point {
	return bounds.Point{X: (p.X - s.TX) / s.Scale, Y: (p.Y - s.TY) / s.Scale}
}

// Project maps a layout rect to the screen.
func (s State) Project(r bounds.Rect) bounds.Rect {
	o := s.Apply(bounds.Point{X: r.X, Y: r.Y})
	return bounds.Rect{X: o.X, Y: o.Y, Width: r.Width * s.Scale, Height: r.Height * s.Scale}
}

// Visible returns the layout-space rect shown in a viewport of size vp.
func (s State) Visible(vp Size) bounds.Rect {
	o := s.Invert(bounds.Point{})
	return bounds.Rect{X: o.X, Y: o.Y, Width: vp.Width / s.Scale, Height: vp.Height / s.Scale}
}

// scaleAround multiplies the scale by factor, keeping the screen point p
// fixed. The resulting scale is clamped to limits.
func (s State) scaleAround(p bounds.Point, factor float64, limits Range) State {
	k := limits.Clamp(s.Scale * factor)
	anchor := s.Invert(p)
	return State{Scale: k, TX: p.X - anchor.X*k, TY: p.Y - anchor.Y*k}
}

// Interpolate blends a and b at t ∈ [0,1]. Scale is interpolated
// geometrically so that it never leaves the interval spanned by a and b.
func Interpolate(a, b State, t float64) State {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return State{
		Scale: a.Scale * math.Pow(b.Scale/a.Scale, t),
		TX:    a.TX + (b.TX-a.TX)*t,
		TY:    a.TY + (b.TY-a.TY)*t,
	}
}
