package view

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/viewport"
)

// Backend serves the family data a session displays.
type Backend interface {
	// Tree returns the nested hierarchy, or nil when there is no data.
	Tree(ctx context.Context) (*family.PersonRecord, error)
	// Person returns one flat record.
	Person(ctx context.Context, id family.ID) (*family.PersonRecord, error)
}

// frameInterval is how often Run ticks while a transition is animating.
const frameInterval = 16 * time.Millisecond

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithTheme sets the theme applied on load.
func WithTheme(th theme.Theme) SessionOption {
	return func(s *Session) { s.theme = th }
}

// WithErrorHandler receives errors from events processed by Run.
func WithErrorHandler(fn func(error)) SessionOption {
	return func(s *Session) { s.onError = fn }
}

// Session is the event loop of one tree view.
type Session struct {
	backend Backend
	cfg     Config
	logger  *log.Logger
	now     func() time.Time
	onError func(error)

	state   *State
	size    viewport.Size
	theme   theme.Theme
	details *family.Details

	resize     *Debouncer[viewport.Size]
	themeQueue *Debouncer[theme.Theme]
	events     chan Event
}

// NewSession creates a session. Nothing is fetched until Load.
func NewSession(b Backend, cfg Config, opts ...SessionOption) *Session {
	cfg.SetDefaults()
	s := &Session{
		backend: b,
		cfg:     cfg,
		now:     time.Now,
		theme:   theme.Default,
		size:    viewport.Size{Width: 1, Height: 1},
		events:  make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.onError == nil {
		s.onError = func(error) {}
	}
	s.resize = NewDebouncer[viewport.Size](cfg.Debounce)
	s.themeQueue = NewDebouncer[theme.Theme](cfg.Debounce)
	return s
}

// State returns the loaded view, or nil before a successful Load.
func (s *Session) State() *State { return s.state }

// Size returns the last applied viewport size.
func (s *Session) Size() viewport.Size { return s.size }

// Theme returns the theme the session is showing.
func (s *Session) Theme() theme.Theme { return s.theme }

// Details returns the details of the last clicked person, if loaded.
func (s *Session) Details() (family.Details, bool) {
	if s.details == nil {
		return family.Details{}, false
	}
	return *s.details, true
}

// Load fetches the tree, lays it out and shows the initial root-and-children
// view in a viewport of size vp. A failed fetch is LOAD_FAILED; an absent
// tree is EMPTY_TREE. In both cases no state is created.
func (s *Session) Load(ctx context.Context, vp viewport.Size) error {
	s.size = vp
	start := s.now()

	root, err := s.backend.Tree(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLoadFailed, err, "failed to load family tree")
	}
	t, err := tree.Build(root)
	if err != nil {
		return err
	}
	for _, w := range t.Warnings() {
		s.logger.Debug("record warning", "warning", w.String())
	}

	st, err := NewState(t, s.cfg, s.theme, viewport.WithClock(s.now), viewport.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.state = st
	s.details = nil
	st.InitialView(vp)

	s.logger.Info("loaded tree", "session", st.ID, "nodes", t.Len(), "depth", t.MaxDepth(), "duration", s.now().Sub(start))
	return nil
}

// Handle processes one event to completion.
func (s *Session) Handle(ctx context.Context, ev Event) error {
	now := s.now()
	switch e := ev.(type) {
	case Resize:
		s.resize.Push(now, e.Size)
		return nil
	case ThemeChanged:
		th, err := theme.Parse(string(e.Theme))
		if err != nil {
			return err
		}
		s.themeQueue.Push(now, th)
		return nil
	case Tick:
		s.flush(e.Now)
		if s.state != nil {
			s.state.Viewport().Advance(e.Now)
		}
		return nil
	}

	if s.state == nil {
		return nil
	}
	st := s.state

	switch e := ev.(type) {
	case ClickAt:
		if id, ok := st.HitTest(e.Point); ok {
			return s.click(ctx, id)
		}
		st.ResetFocus()
		s.details = nil
	case ClickNode:
		return s.click(ctx, e.Node)
	case ClickBackground:
		st.ResetFocus()
		s.details = nil
	case ShowFullTree:
		st.ShowFullTree(s.size)
		s.details = nil
	case SearchChanged:
		s.details = nil
		return st.Search(e.Query)
	case ZoomIn:
		st.Viewport().ZoomIn()
	case ZoomOut:
		st.Viewport().ZoomOut()
	case Fit:
		st.FitToScreen(s.size)
	case ResetZoom:
		st.Viewport().ResetTransform()
	case Pan:
		st.Viewport().Pan(e.DX, e.DY)
	case Wheel:
		st.Viewport().ZoomAt(e.Point, e.Factor)
	}
	return nil
}

// click focuses id before fetching its details. When the fetch fails, focus
// stays and the error is returned.
func (s *Session) click(ctx context.Context, id tree.NodeID) error {
	st := s.state
	if !st.Tree().Valid(id) || !st.Visibility().Interactive(id) {
		return nil
	}
	st.Focus(id)
	s.details = nil

	person := st.Tree().Node(id).Record.ID
	if err := errors.ValidatePersonID(string(person)); err != nil {
		return err
	}
	rec, err := s.backend.Person(ctx, person)
	if err != nil {
		s.logger.Warn("failed to load person", "id", person, "error", err)
		return errors.Wrap(errors.ErrCodeLoadFailed, err, "failed to load details for %s", person)
	}
	if rec == nil {
		return errors.New(errors.ErrCodeNotFound, "person %s not found", person)
	}
	d := family.NewDetails(rec)
	s.details = &d
	return nil
}

// flush applies debounced events whose quiet period has passed.
func (s *Session) flush(now time.Time) {
	if size, ok := s.resize.Due(now); ok {
		s.size = size
		if s.state != nil {
			st := s.state.Viewport().Resize(size)
			s.logger.Debug("resized", "width", size.Width, "height", size.Height, "scale", st.Scale)
		}
	}
	if th, ok := s.themeQueue.Due(now); ok && th.Valid() {
		s.theme = th
		if s.state != nil && s.state.ApplyTheme(th) {
			s.logger.Debug("theme applied", "theme", th)
		}
	}
}

// NextDeadline returns when the session next needs a Tick: the earliest
// debounce deadline, or the next animation frame while transitioning.
func (s *Session) NextDeadline() (time.Time, bool) {
	var next time.Time
	found := false
	consider := func(t time.Time, ok bool) {
		if ok && (!found || t.Before(next)) {
			next, found = t, true
		}
	}
	consider(s.resize.Deadline())
	consider(s.themeQueue.Deadline())
	if s.state != nil && s.state.Viewport().Phase() == viewport.Transitioning {
		consider(s.now().Add(frameInterval), true)
	}
	return next, found
}

// Post queues ev for Run. It is safe to call from any goroutine.
func (s *Session) Post(ev Event) {
	s.events <- ev
}

// Subscribe forwards theme changes from n into the session.
func (s *Session) Subscribe(n *theme.Notifier) (unsubscribe func()) {
	return n.OnThemeChanged(func(th theme.Theme) { s.Post(ThemeChanged{Theme: th}) })
}

// Run processes posted events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		var wake <-chan time.Time
		if d, ok := s.NextDeadline(); ok {
			timer.Reset(max(0, d.Sub(s.now())))
			wake = timer.C
		} else {
			timer.Stop()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			if err := s.Handle(ctx, ev); err != nil {
				s.onError(err)
			}
		case <-wake:
			_ = s.Handle(ctx, Tick{Now: s.now()})
		}
	}
}
