package visibility

import "github.com/matzehuels/familytree/pkg/tree"

// Opacity holds the alpha values used to dim nodes and links.
type Opacity struct {
	Node float64 `toml:"node" json:"node"`

	FocusDimmed     float64 `toml:"focus_dimmed" json:"focus_dimmed"`
	FocusLink       float64 `toml:"focus_link" json:"focus_link"`
	FocusLinkDimmed float64 `toml:"focus_link_dimmed" json:"focus_link_dimmed"`

	SearchDimmed float64 `toml:"search_dimmed" json:"search_dimmed"`
	SearchLink   float64 `toml:"search_link" json:"search_link"`

	Link        float64 `toml:"link" json:"link"`
	InitialLink float64 `toml:"initial_link" json:"initial_link"`
}

// DefaultOpacity returns the stock dimming values.
func DefaultOpacity() Opacity {
	return Opacity{
		Node:            1,
		FocusDimmed:     0.07,
		FocusLink:       1,
		FocusLinkDimmed: 0.04,
		SearchDimmed:    0.12,
		SearchLink:      0.08,
		Link:            1,
		InitialLink:     0.85,
	}
}

// NodeOpacity returns the alpha of node id under s.
func (o Opacity) NodeOpacity(s Set, id tree.NodeID) float64 {
	if s.Visible(id) {
		return o.Node
	}
	if s.mode == ModeSearch {
		return o.SearchDimmed
	}
	return o.FocusDimmed
}

// LinkOpacity returns the alpha of link e under s. In focus mode a link is
// lit only when both ends are visible; during a search every link is dimmed.
func (o Opacity) LinkOpacity(s Set, e tree.Edge) float64 {
	switch s.mode {
	case ModeSearch:
		return o.SearchLink
	case ModeFocus:
		if s.Visible(e.Parent) && s.Visible(e.Child) {
			return o.FocusLink
		}
		return o.FocusLinkDimmed
	default:
		if s.initial {
			return o.InitialLink
		}
		return o.Link
	}
}
