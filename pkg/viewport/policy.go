package viewport

import (
	"math"
	"time"

	"github.com/matzehuels/familytree/pkg/bounds"
)

// Align selects how a fit places content vertically.
type Align int

const (
	// AlignCenter centres content in both axes.
	AlignCenter Align = iota
	// AlignTop centres horizontally and pins the content top TopPadding
	// pixels below the viewport top.
	AlignTop
)

func (a Align) String() string {
	if a == AlignTop {
		return "top"
	}
	return "center"
}

// Policy describes one way of fitting a content box into the viewport.
type Policy struct {
	Name       string
	Align      Align
	Range      Range   // Extra scale clamp inside the global limits; zero = none
	Padding    float64 // Margin around the content, in layout units
	TopPadding float64 // Screen pixels above the content for AlignTop
	Boost      float64 // Multiplier applied before clamping; zero = 1
	Duration   time.Duration
}

// Fit returns the transform that places b in vp under p. The scale is always
// inside limits, and inside p.Range when that is set.
func (p Policy) Fit(vp Size, b bounds.Rect, limits Range) State {
	vp = vp.normalized()

	fullW := math.Max(1, b.Width+2*p.Padding)
	fullH := math.Max(1, b.Height+2*p.Padding)
	k := math.Min(vp.Width/fullW, vp.Height/fullH)
	if p.Boost > 0 {
		k *= p.Boost
	}

	r := limits
	if !p.Range.IsZero() {
		r = p.Range.Intersect(limits)
	}
	k = r.Clamp(k)

	s := State{Scale: k, TX: (vp.Width-b.Width*k)/2 - b.X*k}
	if p.Align == AlignTop {
		// Never push the content top below the middle of a short viewport.
		s.TY = math.Min(p.TopPadding, vp.Height/2) - b.Y*k
	} else {
		s.TY = (vp.Height-b.Height*k)/2 - b.Y*k
	}
	return s
}

// Presets for the named fit operations.

// ScreenPolicy fits the whole content centred.
func (c Config) ScreenPolicy(padding float64) Policy {
	return Policy{Name: "fit", Align: AlignCenter, Padding: padding, Duration: c.FitDuration}
}

// ReadablePolicy fits content at a legible scale, pinned to the top.
func (c Config) ReadablePolicy(padding float64, clamp Range, topPadding float64) Policy {
	if clamp.IsZero() {
		clamp = c.Readable
	}
	return Policy{
		Name:       "readable",
		Align:      AlignTop,
		Range:      clamp,
		Padding:    padding,
		TopPadding: topPadding,
		Duration:   c.FitDuration,
	}
}

// InitialPolicy fits the root and its children centred, slightly enlarged.
func (c Config) InitialPolicy(padding float64) Policy {
	return Policy{
		Name:     "initial",
		Align:    AlignCenter,
		Padding:  padding,
		Boost:    c.InitialBoost,
		Duration: c.InitialDuration,
	}
}
