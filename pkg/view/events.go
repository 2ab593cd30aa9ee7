package view

import (
	"time"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/viewport"
)

// Event is one user or system interaction.
type Event interface {
	event()
}

// ClickNode selects and focuses a node, then loads its details.
type ClickNode struct{ Node tree.NodeID }

// ClickAt is a click at a screen point; it resolves to ClickNode or
// ClickBackground.
type ClickAt struct{ Point bounds.Point }

// ClickBackground clears focus and selection.
type ClickBackground struct{}

// ShowFullTree clears focus and fits the whole tree.
type ShowFullTree struct{}

// SearchChanged filters nodes by name.
type SearchChanged struct{ Query string }

// Resize reports a new viewport size. Debounced.
type Resize struct{ Size viewport.Size }

// ThemeChanged reports an external theme switch. Debounced.
type ThemeChanged struct{ Theme theme.Theme }

// ZoomIn and ZoomOut are the zoom buttons.
type (
	ZoomIn  struct{}
	ZoomOut struct{}
)

// Fit fits the whole tree without touching focus.
type Fit struct{}

// ResetZoom returns to the identity transform.
type ResetZoom struct{}

// Pan drags the view by screen pixels.
type Pan struct{ DX, DY float64 }

// Wheel zooms around a screen point.
type Wheel struct {
	Point  bounds.Point
	Factor float64
}

// Tick advances animations and releases debounced events.
type Tick struct{ Now time.Time }

func (ClickNode) event()       {}
func (ClickAt) event()         {}
func (ClickBackground) event() {}
func (ShowFullTree) event()    {}
func (SearchChanged) event()   {}
func (Resize) event()          {}
func (ThemeChanged) event()    {}
func (ZoomIn) event()          {}
func (ZoomOut) event()         {}
func (Fit) event()             {}
func (ResetZoom) event()       {}
func (Pan) event()             {}
func (Wheel) event()           {}
func (Tick) event()            {}
