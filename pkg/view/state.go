package view

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/viewport"
	"github.com/matzehuels/familytree/pkg/visibility"
)

// Config bundles the tunables of a view.
type Config struct {
	Layout   layout.Config      `toml:"layout"`
	Viewport viewport.Config    `toml:"viewport"`
	Opacity  visibility.Opacity `toml:"opacity"`
	Debounce time.Duration      `toml:"debounce"`
}

// DefaultConfig returns the stock view configuration.
func DefaultConfig() Config {
	return Config{
		Layout:   layout.DefaultConfig(),
		Viewport: viewport.DefaultConfig(),
		Opacity:  visibility.DefaultOpacity(),
		Debounce: DefaultDebounce,
	}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	c.Layout.SetDefaults()
	c.Viewport.Card = c.Layout.Card()
	c.Viewport.SetDefaults()
	if c.Opacity == (visibility.Opacity{}) {
		c.Opacity = visibility.DefaultOpacity()
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
}

// Node is the presentation of one tree node.
type Node struct {
	ID          tree.NodeID
	Person      family.ID
	Label       string
	Subtitle    string
	Photo       string
	Placeholder bool
	Position    bounds.Point
	Card        bounds.Rect
	Skin        theme.Skin
}

// State is everything one tree view mutates. It is created per data load and
// must only be used from one goroutine.
type State struct {
	ID uuid.UUID

	cfg       Config
	tree      *tree.Tree
	positions layout.Positions
	bounds    bounds.Rect
	nodes     []Node
	links     []layout.Link
	index     *visibility.Index

	viewport   *viewport.Controller
	visibility visibility.Set
	selected   tree.NodeID
	query      string
	theme      theme.Theme
}

// NewState lays out t once and prepares a view skinned with th.
func NewState(t *tree.Tree, cfg Config, th theme.Theme, opts ...viewport.Option) (*State, error) {
	if t == nil || t.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTree, "no family tree data")
	}
	cfg.SetDefaults()
	if !th.Valid() {
		th = theme.Default
	}

	pos := layout.Compute(t, cfg.Layout)
	card := cfg.Layout.Card()
	s := &State{
		ID:         uuid.New(),
		cfg:        cfg,
		tree:       t,
		positions:  pos,
		bounds:     bounds.ComputeCard(pos, card),
		links:      layout.Links(t, pos, cfg.Layout),
		index:      visibility.NewIndex(t),
		viewport:   viewport.New(cfg.Viewport, opts...),
		visibility: visibility.Initial(t),
		selected:   tree.NoParent,
		theme:      th,
	}

	skin := th.Skin()
	s.nodes = make([]Node, t.Len())
	for i, n := range t.Nodes() {
		rec := n.Record
		s.nodes[i] = Node{
			ID:          n.ID,
			Person:      rec.ID,
			Label:       rec.DisplayName(),
			Subtitle:    rec.Subtitle(),
			Photo:       rec.Photo(),
			Placeholder: rec.UsesPlaceholder(),
			Position:    pos[i],
			Card:        card.Rect(pos[i]),
			Skin:        skin,
		}
	}
	return s, nil
}

// Accessors.

func (s *State) Config() Config { return s.cfg }
func (s *State) Tree() *tree.Tree { return s.tree }
func (s *State) Positions() layout.Positions { return s.positions }
func (s *State) Bounds() bounds.Rect { return s.bounds }
func (s *State) Nodes() []Node { return s.nodes }
func (s *State) Links() []layout.Link { return s.links }
func (s *State) Viewport() *viewport.Controller { return s.viewport }
func (s *State) Visibility() visibility.Set { return s.visibility }
func (s *State) Theme() theme.Theme { return s.theme }
func (s *State) Query() string { return s.query }
func (s *State) Transform() viewport.State { return s.viewport.State() }

// Selected returns the clicked node, if any.
func (s *State) Selected() (tree.NodeID, bool) {
	return s.selected, s.selected != tree.NoParent
}

// NodeOpacity returns the current alpha of id.
func (s *State) NodeOpacity(id tree.NodeID) float64 {
	return s.cfg.Opacity.NodeOpacity(s.visibility, id)
}

// LinkOpacity returns the current alpha of link i (see Links).
func (s *State) LinkOpacity(i int) float64 {
	return s.cfg.Opacity.LinkOpacity(s.visibility, s.links[i].Edge)
}

// =============================================================================
// Visibility
// =============================================================================

// Focus selects id and restricts visibility to its lineage. Any search is
// cleared. Returns false when id is unknown.
func (s *State) Focus(id tree.NodeID) bool {
	if !s.tree.Valid(id) {
		return false
	}
	s.visibility = visibility.Focus(s.tree, id)
	s.selected = id
	s.query = ""
	return true
}

// ResetFocus shows every node and clears selection and search.
func (s *State) ResetFocus() {
	s.visibility = visibility.All(s.tree)
	s.selected = tree.NoParent
	s.query = ""
}

// Search filters nodes by display name. A blank query resets. Focus and
// selection are cleared either way.
func (s *State) Search(query string) error {
	if err := errors.ValidateQuery(query); err != nil {
		return err
	}
	s.selected = tree.NoParent
	s.visibility = s.index.Search(query)
	s.query = s.visibility.Query()
	return nil
}

// =============================================================================
// Viewport
// =============================================================================

// InitialView fits the root and its children.
func (s *State) InitialView(vp viewport.Size) viewport.State {
	return s.viewport.InitialRootAndChildrenView(vp, s.tree, s.positions, s.cfg.Viewport.InitialPadding)
}

// FitToScreen fits the whole tree.
func (s *State) FitToScreen(vp viewport.Size) viewport.State {
	return s.viewport.FitToScreen(vp, s.bounds, s.cfg.Viewport.FitPadding)
}

// FitReadable fits the whole tree at a legible scale, anchored at the top.
func (s *State) FitReadable(vp viewport.Size) viewport.State {
	return s.viewport.FitReadable(vp, s.bounds, s.cfg.Viewport.FitPadding, viewport.Range{}, s.cfg.Viewport.TopPadding)
}

// ShowFullTree resets focus and fits the whole tree.
func (s *State) ShowFullTree(vp viewport.Size) viewport.State {
	s.ResetFocus()
	return s.FitToScreen(vp)
}

// HitTest returns the interactive node whose card is under the screen point
// p. Dimmed nodes are never hit. When cards overlap, the later node in
// pre-order wins, matching paint order.
func (s *State) HitTest(p bounds.Point) (tree.NodeID, bool) {
	q := s.viewport.State().Invert(p)
	for i := len(s.nodes) - 1; i >= 0; i-- {
		c := s.nodes[i].Card
		if q.X >= c.X && q.X <= c.MaxX() && q.Y >= c.Y && q.Y <= c.MaxY() {
			id := tree.NodeID(i)
			if s.visibility.Interactive(id) {
				return id, true
			}
		}
	}
	return tree.NoParent, false
}

// =============================================================================
// Theme
// =============================================================================

// ApplyTheme re-skins every node in place. Positions, bounds, the viewport
// and visibility are untouched, and applying the same theme twice is a no-op.
// Reports whether anything changed.
func (s *State) ApplyTheme(th theme.Theme) bool {
	if !th.Valid() || th == s.theme {
		return false
	}
	s.theme = th
	skin := th.Skin()
	for i := range s.nodes {
		s.nodes[i].Skin = skin
	}
	return true
}
