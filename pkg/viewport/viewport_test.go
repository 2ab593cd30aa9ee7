package viewport

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/tree"
	"pgregory.net/rapid"
)

type fakeClock struct{ t time.Time }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func (f *fakeClock) Now() time.Time      { return f.t }
func (f *fakeClock) Add(d time.Duration) { f.t = f.t.Add(d) }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func stateNear(a, b State) bool {
	return near(a.Scale, b.Scale) && near(a.TX, b.TX) && near(a.TY, b.TY)
}

// instant returns a config without animations.
func instant() Config {
	c := DefaultConfig()
	c.FitDuration, c.InitialDuration, c.ZoomDuration = 0, 0, 0
	return c
}

func TestFitToScreenCentres(t *testing.T) {
	c := New(instant())
	b := bounds.Rect{X: -100, Y: -50, Width: 200, Height: 100}
	s := c.FitToScreen(Size{Width: 800, Height: 600}, b, 0)

	if !near(s.Scale, 4) {
		t.Fatalf("scale = %v, want 4", s.Scale)
	}
	got := s.Project(b)
	if !near(got.Center().X, 400) || !near(got.Center().Y, 300) {
		t.Errorf("content centre = %+v, want (400,300)", got.Center())
	}
	if c.Phase() != Idle {
		t.Errorf("phase = %v, want idle for zero duration", c.Phase())
	}
}

func TestFitToScreenPadding(t *testing.T) {
	c := New(instant())
	b := bounds.Rect{X: 0, Y: 0, Width: 580, Height: 80}
	s := c.FitToScreen(Size{Width: 800, Height: 1000}, b, 110)
	if !near(s.Scale, 1) {
		t.Errorf("scale = %v, want 800/(580+220) = 1", s.Scale)
	}
}

func TestFitClampsToLimits(t *testing.T) {
	c := New(instant())
	tiny := bounds.Rect{Width: 1, Height: 1}
	if s := c.FitToScreen(Size{Width: 4000, Height: 4000}, tiny, 0); s.Scale != 6 {
		t.Errorf("scale = %v, want max 6", s.Scale)
	}
	huge := bounds.Rect{Width: 1e7, Height: 1e7}
	if s := c.FitToScreen(Size{Width: 100, Height: 100}, huge, 0); s.Scale != 0.01 {
		t.Errorf("scale = %v, want min 0.01", s.Scale)
	}
}

func TestFitReadablePinsTop(t *testing.T) {
	c := New(instant())
	b := bounds.Rect{X: -500, Y: -70, Width: 1000, Height: 10000}
	s := c.FitReadable(Size{Width: 400, Height: 800}, b, 0, Range{}, 24)

	if s.Scale != c.Config().Readable.Min {
		t.Errorf("scale = %v, want readable min %v", s.Scale, c.Config().Readable.Min)
	}
	top := s.Apply(bounds.Point{X: b.X, Y: b.Y})
	if !near(top.Y, 24) {
		t.Errorf("content top at %v, want 24", top.Y)
	}
	if !near(s.Project(b).Center().X, 200) {
		t.Errorf("content not horizontally centred: %+v", s.Project(b))
	}
}

func TestFitReadableCustomClamp(t *testing.T) {
	c := New(instant())
	b := bounds.Rect{Width: 10, Height: 10}
	s := c.FitReadable(Size{Width: 1000, Height: 1000}, b, 0, Range{Min: 0.5, Max: 0.8}, 10)
	if s.Scale != 0.8 {
		t.Errorf("scale = %v, want 0.8", s.Scale)
	}
}

func TestInitialRootAndChildrenView(t *testing.T) {
	root := family.PersonRecord{ID: "r", Name: "R", Children: []family.PersonRecord{
		{ID: "a", Name: "A", Children: []family.PersonRecord{
			{ID: "g1", Name: "G1"}, {ID: "g2", Name: "G2"}, {ID: "g3", Name: "G3"}, {ID: "g4", Name: "G4"},
		}},
		{ID: "b", Name: "B"},
	}}
	tr, err := tree.Build(&root)
	if err != nil {
		t.Fatal(err)
	}
	pos := layout.Compute(tr, layout.DefaultConfig())

	c := New(instant())
	vp := Size{Width: 1200, Height: 900}
	s := c.InitialRootAndChildrenView(vp, tr, pos, 130)

	b := bounds.ForDepths(tr, pos, 0, 1, c.Config().Card)
	want := c.Config().InitialPolicy(130).Fit(vp, b, c.Config().Limits())
	if !stateNear(s, want) {
		t.Errorf("state = %+v, want %+v", s, want)
	}
	if p, ok := c.ActivePolicy(); !ok || p.Name != "initial" {
		t.Errorf("active policy = %+v, %v", p, ok)
	}
	// Grandchildren do not influence the fit.
	if !near(s.Project(b).Center().X, 600) {
		t.Errorf("root+children not centred: %+v", s.Project(b))
	}
}

func TestZoomByAroundCentre(t *testing.T) {
	c := New(instant(), WithViewport(Size{Width: 800, Height: 600}))
	before := c.State().Invert(bounds.Point{X: 400, Y: 300})
	s := c.ZoomBy(2)
	if s.Scale != 2 {
		t.Fatalf("scale = %v, want 2", s.Scale)
	}
	after := s.Invert(bounds.Point{X: 400, Y: 300})
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("centre moved: %+v → %+v", before, after)
	}
}

func TestZoomClamp(t *testing.T) {
	c := New(instant())
	for i := 0; i < 100; i++ {
		c.ZoomIn()
	}
	if c.State().Scale != 6 {
		t.Errorf("scale = %v, want 6", c.State().Scale)
	}
	for i := 0; i < 200; i++ {
		c.ZoomOut()
	}
	if c.State().Scale != 0.01 {
		t.Errorf("scale = %v, want 0.01", c.State().Scale)
	}
}

func TestResetTransform(t *testing.T) {
	c := New(instant())
	c.Pan(40, 50)
	c.ZoomBy(3)
	if s := c.ResetTransform(); s != (State{Scale: 1}) {
		t.Errorf("ResetTransform = %+v, want identity", s)
	}
}

func TestTransitionLifecycle(t *testing.T) {
	clk := newClock()
	c := New(DefaultConfig(), WithClock(clk.Now))
	b := bounds.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	target := c.FitToScreen(Size{Width: 1000, Height: 1000}, b, 0)
	if c.Phase() != Transitioning {
		t.Fatalf("phase = %v, want transitioning", c.Phase())
	}
	if c.Target() != target {
		t.Errorf("Target = %+v, want %+v", c.Target(), target)
	}

	clk.Add(160 * time.Millisecond)
	mid := c.Advance(clk.Now())
	if c.Phase() != Transitioning || mid == target {
		t.Errorf("mid-transition state = %+v (phase %v)", mid, c.Phase())
	}
	if mid.Scale < 1 || mid.Scale > target.Scale {
		t.Errorf("mid scale %v outside [1, %v]", mid.Scale, target.Scale)
	}

	clk.Add(200 * time.Millisecond)
	if got := c.Advance(clk.Now()); got != target || c.Phase() != Idle {
		t.Errorf("after duration: %+v (phase %v), want %+v idle", got, c.Phase(), target)
	}
}

func TestNewerFitSupersedes(t *testing.T) {
	clk := newClock()
	c := New(DefaultConfig(), WithClock(clk.Now))
	vp := Size{Width: 1000, Height: 1000}

	c.FitToScreen(vp, bounds.Rect{Width: 100, Height: 100}, 0)
	clk.Add(100 * time.Millisecond)
	c.Advance(clk.Now())

	second := c.FitToScreen(vp, bounds.Rect{Width: 2000, Height: 2000}, 0)
	tr, ok := c.Transition()
	if !ok {
		t.Fatal("expected a running transition")
	}
	if tr.To != second || !tr.Start.Equal(clk.Now()) {
		t.Errorf("transition = %+v, want fresh one to %+v", tr, second)
	}

	clk.Add(c.Config().FitDuration)
	if got := c.Advance(clk.Now()); got != second {
		t.Errorf("final = %+v, want %+v", got, second)
	}
}

func TestGestureInterruptsTransition(t *testing.T) {
	clk := newClock()
	c := New(DefaultConfig(), WithClock(clk.Now))
	c.FitToScreen(Size{Width: 1000, Height: 1000}, bounds.Rect{Width: 100, Height: 100}, 0)

	clk.Add(100 * time.Millisecond)
	s := c.Pan(10, 0)
	if c.Phase() != Idle {
		t.Errorf("phase = %v, want idle after pan", c.Phase())
	}
	if s.Scale <= 1 {
		t.Errorf("pan should freeze the partially zoomed frame, got scale %v", s.Scale)
	}
}

func TestResizeRerunsActiveFit(t *testing.T) {
	c := New(instant())
	b := bounds.Rect{X: -300, Y: -70, Width: 600, Height: 400}
	c.FitToScreen(Size{Width: 1200, Height: 800}, b, 110)
	c.Pan(5000, 5000)

	vp := Size{Width: 500, Height: 900}
	got := c.Resize(vp)
	want := c.Config().ScreenPolicy(110).Fit(vp, b, c.Config().Limits())
	if !stateNear(got, want) {
		t.Errorf("Resize = %+v, want %+v", got, want)
	}
	if c.Viewport() != vp {
		t.Errorf("Viewport = %+v", c.Viewport())
	}
}

func TestResizeWithoutFit(t *testing.T) {
	c := New(instant())
	c.Pan(3, 4)
	if got := c.Resize(Size{Width: 10, Height: 10}); got != (State{Scale: 1, TX: 3, TY: 4}) {
		t.Errorf("Resize = %+v", got)
	}
}

func TestCollapsedViewport(t *testing.T) {
	c := New(instant())
	s := c.FitToScreen(Size{}, bounds.Rect{Width: 100, Height: 100}, 0)
	if s.Scale <= 0 || math.IsNaN(s.TX) || math.IsNaN(s.TY) {
		t.Errorf("collapsed viewport produced %+v", s)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.ScaleMax = 0.001
	if err := bad.Validate(); err == nil {
		t.Error("expected error for inverted scale range")
	}
	bad = DefaultConfig()
	bad.ZoomOutFactor = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zoom-out factor > 1")
	}
}

// =============================================================================
// Properties
// =============================================================================

func genRect(t *rapid.T) bounds.Rect {
	return bounds.Rect{
		X:      rapid.Float64Range(-1e5, 1e5).Draw(t, "bx"),
		Y:      rapid.Float64Range(-1e5, 1e5).Draw(t, "by"),
		Width:  rapid.Float64Range(1, 1e6).Draw(t, "bw"),
		Height: rapid.Float64Range(1, 1e6).Draw(t, "bh"),
	}
}

func genSize(t *rapid.T, label string) Size {
	return Size{
		Width:  rapid.Float64Range(1, 8000).Draw(t, label+"w"),
		Height: rapid.Float64Range(1, 8000).Draw(t, label+"h"),
	}
}

func TestScaleClampProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := New(instant())
		cfg := c.Config()
		b := genRect(rt)
		vp := genSize(rt, "vp")
		pad := rapid.Float64Range(0, 500).Draw(rt, "pad")

		if s := c.FitToScreen(vp, b, pad); !cfg.Limits().Contains(s.Scale) {
			rt.Fatalf("FitToScreen scale %v outside limits", s.Scale)
		}
		s := c.FitReadable(vp, b, pad, Range{}, 24)
		if !cfg.Limits().Contains(s.Scale) || !cfg.Readable.Contains(s.Scale) {
			rt.Fatalf("FitReadable scale %v outside readable range", s.Scale)
		}
		zooms := rapid.IntRange(0, 40).Draw(rt, "zooms")
		for i := 0; i < zooms; i++ {
			c.ZoomBy(rapid.Float64Range(0.1, 10).Draw(rt, "factor"))
			if !cfg.Limits().Contains(c.State().Scale) {
				rt.Fatalf("ZoomBy scale %v outside limits", c.State().Scale)
			}
		}
	})
}

func TestResizeStabilityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := New(instant())
		b := genRect(rt)
		vp := genSize(rt, "first")
		pad := rapid.Float64Range(0, 300).Draw(rt, "pad")

		if rapid.Bool().Draw(rt, "readable") {
			c.FitReadable(vp, b, pad, Range{}, rapid.Float64Range(0, 200).Draw(rt, "top"))
		} else {
			c.FitToScreen(vp, b, pad)
		}
		c.Pan(rapid.Float64Range(-1e6, 1e6).Draw(rt, "dx"), rapid.Float64Range(-1e6, 1e6).Draw(rt, "dy"))

		next := genSize(rt, "next")
		s := c.Resize(next)
		screen := bounds.Rect{Width: next.Width, Height: next.Height}
		if !s.Project(b).Intersects(screen) {
			rt.Fatalf("content %+v entirely outside %+v after resize", s.Project(b), screen)
		}
	})
}
