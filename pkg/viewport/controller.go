package viewport

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Phase is the controller's animation state.
type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Transition is an in-flight animation between two states.
type Transition struct {
	From     State
	To       State
	Start    time.Time
	Duration time.Duration
}

// At returns the animated state at now, eased with a cubic in-out curve.
func (t Transition) At(now time.Time) State {
	if t.Duration <= 0 {
		return t.To
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	return Interpolate(t.From, t.To, easeCubicInOut(p))
}

// Done reports whether the transition has finished at now.
func (t Transition) Done(now time.Time) bool {
	return t.Duration <= 0 || !now.Before(t.Start.Add(t.Duration))
}

func easeCubicInOut(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// fit is a policy bound to the content box it was applied to.
type fit struct {
	policy Policy
	bounds bounds.Rect
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used to stamp transitions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithViewport sets the initial viewport size.
func WithViewport(vp Size) Option {
	return func(c *Controller) { c.viewport = vp }
}

// Controller owns the viewport transform. It is not safe for concurrent use;
// it is driven from a single event loop.
type Controller struct {
	cfg      Config
	now      func() time.Time
	logger   *log.Logger
	viewport Size

	state      State
	phase      Phase
	transition Transition
	active     *fit
}

// New creates a controller at the identity transform.
func New(cfg Config, opts ...Option) *Controller {
	cfg.SetDefaults()
	c := &Controller{
		cfg:      cfg,
		now:      time.Now,
		viewport: Size{Width: 1, Height: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.state = State{Scale: cfg.Limits().Clamp(1)}
	return c
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the currently displayed transform.
func (c *Controller) State() State { return c.state }

// Target returns the state the controller is heading to; equal to State when
// idle.
func (c *Controller) Target() State {
	if c.phase == Transitioning {
		return c.transition.To
	}
	return c.state
}

// Phase returns the animation phase.
func (c *Controller) Phase() Phase { return c.phase }

// Transition returns the running transition, if any.
func (c *Controller) Transition() (Transition, bool) {
	return c.transition, c.phase == Transitioning
}

// Viewport returns the last known viewport size.
func (c *Controller) Viewport() Size { return c.viewport }

// ActivePolicy returns the last fit policy applied.
func (c *Controller) ActivePolicy() (Policy, bool) {
	if c.active == nil {
		return Policy{}, false
	}
	return c.active.policy, true
}

// =============================================================================
// Programmatic fits
// =============================================================================

// Apply fits b into vp under p and records p as the active policy.
func (c *Controller) Apply(vp Size, b bounds.Rect, p Policy) State {
	c.viewport = vp.normalized()
	c.active = &fit{policy: p, bounds: b}
	target := p.Fit(c.viewport, b, c.cfg.Limits())
	c.logger.Debug("fit", "policy", p.Name, "scale", target.Scale, "tx", target.TX, "ty", target.TY)
	c.animate(target, p.Duration)
	return target
}

// FitToScreen centres the whole of b in the viewport.
func (c *Controller) FitToScreen(vp Size, b bounds.Rect, padding float64) State {
	return c.Apply(vp, b, c.cfg.ScreenPolicy(padding))
}

// FitReadable fits b at a legible scale with its top pinned topPadding pixels
// below the viewport top. A zero clamp uses Config.Readable.
func (c *Controller) FitReadable(vp Size, b bounds.Rect, padding float64, clamp Range, topPadding float64) State {
	return c.Apply(vp, b, c.cfg.ReadablePolicy(padding, clamp, topPadding))
}

// InitialRootAndChildrenView fits the root and its immediate children,
// ignoring deeper generations.
func (c *Controller) InitialRootAndChildrenView(vp Size, t *tree.Tree, pos layout.Positions, padding float64) State {
	b := bounds.ForDepths(t, pos, 0, 1, c.cfg.Card)
	return c.Apply(vp, b, c.cfg.InitialPolicy(padding))
}

// Resize records the new viewport size and re-runs the active fit. Without an
// active fit the transform is kept.
func (c *Controller) Resize(vp Size) State {
	if c.active == nil {
		c.viewport = vp.normalized()
		return c.state
	}
	return c.Apply(vp, c.active.bounds, c.active.policy)
}

// ZoomBy scales the view around the viewport centre. Repeated calls during
// an animation compound on its target.
func (c *Controller) ZoomBy(factor float64) State {
	from := c.Target()
	target := from.scaleAround(c.viewport.Center(), factor, c.cfg.Limits())
	c.animate(target, c.cfg.ZoomDuration)
	return target
}

// ZoomIn applies the configured zoom-in step.
func (c *Controller) ZoomIn() State { return c.ZoomBy(c.cfg.ZoomInFactor) }

// ZoomOut applies the configured zoom-out step.
func (c *Controller) ZoomOut() State { return c.ZoomBy(c.cfg.ZoomOutFactor) }

// ResetTransform animates back to the identity transform.
func (c *Controller) ResetTransform() State {
	target := State{Scale: c.cfg.Limits().Clamp(1)}
	c.animate(target, c.cfg.FitDuration)
	return target
}

func (c *Controller) animate(target State, d time.Duration) {
	c.interrupt()
	if d <= 0 {
		c.state = target
		c.phase = Idle
		return
	}
	c.transition = Transition{From: c.state, To: target, Start: c.now(), Duration: d}
	c.phase = Transitioning
}

// Advance moves a running transition to now and returns the displayed state.
func (c *Controller) Advance(now time.Time) State {
	if c.phase != Transitioning {
		return c.state
	}
	c.state = c.transition.At(now)
	if c.transition.Done(now) {
		c.state = c.transition.To
		c.phase = Idle
	}
	return c.state
}

// Finish jumps to the end of any running transition.
func (c *Controller) Finish() State {
	if c.phase == Transitioning {
		c.state = c.transition.To
		c.phase = Idle
	}
	return c.state
}

// =============================================================================
// Gestures
// =============================================================================

// Pan shifts the view by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) State {
	c.interrupt()
	c.state.TX += dx
	c.state.TY += dy
	return c.state
}

// ZoomAt scales the view around the screen point p.
func (c *Controller) ZoomAt(p bounds.Point, factor float64) State {
	c.interrupt()
	c.state = c.state.scaleAround(p, factor, c.cfg.Limits())
	return c.state
}

// interrupt freezes a running transition at its current frame.
func (c *Controller) interrupt() {
	if c.phase == Transitioning {
		c.state = c.transition.At(c.now())
		c.phase = Idle
	}
}
