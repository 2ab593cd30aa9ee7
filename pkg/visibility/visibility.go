// Package visibility derives which nodes of a tree are shown at full opacity.
//
// A [Set] is in one of three modes. [All] shows everything. [Focus] shows a
// person's direct lineage: the person, every ancestor up to the root and the
// person's own children, but no siblings or grandchildren. [Search] shows
// nodes whose display name contains the query, ignoring case.
//
// Sets are immutable values. Switching focus or running a search produces a
// new Set that replaces the old one wholesale, so focus and search can never
// be active at the same time. Hidden nodes are dimmed and must not receive
// pointer events; see [Set.Interactive].
package visibility

import (
	"github.com/matzehuels/familytree/pkg/tree"
)

// Mode identifies what produced a Set.
type Mode int

const (
	ModeAll Mode = iota
	ModeFocus
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeFocus:
		return "focus"
	case ModeSearch:
		return "search"
	default:
		return "all"
	}
}

// Set is the visibility state of every node of one tree.
type Set struct {
	mode    Mode
	visible []bool // nil in ModeAll
	count   int
	focus   tree.NodeID
	query   string
	initial bool
}

// All returns a set in which every node is visible.
func All(t *tree.Tree) Set {
	return Set{mode: ModeAll, count: t.Len(), focus: tree.NoParent}
}

// Initial is All as shown right after loading, before any interaction. It
// differs from All only in link opacity.
func Initial(t *tree.Tree) Set {
	s := All(t)
	s.initial = true
	return s
}

// Focus returns the lineage of id: id itself, its ancestors and its direct
// children. An invalid id yields All.
func Focus(t *tree.Tree, id tree.NodeID) Set {
	if !t.Valid(id) {
		return All(t)
	}
	s := Set{mode: ModeFocus, visible: make([]bool, t.Len()), focus: id}
	s.show(id)
	for _, a := range t.Ancestors(id) {
		s.show(a)
	}
	for _, c := range t.Children(id) {
		s.show(c)
	}
	return s
}

func (s *Set) show(id tree.NodeID) {
	if !s.visible[id] {
		s.visible[id] = true
		s.count++
	}
}

// Mode returns how the set was produced.
func (s Set) Mode() Mode { return s.mode }

// Visible reports whether id is shown at full opacity.
func (s Set) Visible(id tree.NodeID) bool {
	if s.visible == nil {
		return true
	}
	return id >= 0 && int(id) < len(s.visible) && s.visible[id]
}

// Interactive reports whether id accepts pointer events. Dimmed nodes do not.
func (s Set) Interactive(id tree.NodeID) bool { return s.Visible(id) }

// Len returns the number of visible nodes.
func (s Set) Len() int { return s.count }

// IDs returns the visible nodes in pre-order. In ModeAll it returns nil; use
// the tree's node list instead.
func (s Set) IDs() []tree.NodeID {
	if s.visible == nil {
		return nil
	}
	out := make([]tree.NodeID, 0, s.count)
	for i, v := range s.visible {
		if v {
			out = append(out, tree.NodeID(i))
		}
	}
	return out
}

// Focused returns the focused node in ModeFocus.
func (s Set) Focused() (tree.NodeID, bool) {
	return s.focus, s.mode == ModeFocus
}

// Query returns the normalized query in ModeSearch.
func (s Set) Query() string { return s.query }

// Equal reports whether s and o show the same nodes in the same mode.
func (s Set) Equal(o Set) bool {
	if s.mode != o.mode || s.count != o.count || s.focus != o.focus || s.query != o.query || s.initial != o.initial {
		return false
	}
	if len(s.visible) != len(o.visible) {
		return false
	}
	for i := range s.visible {
		if s.visible[i] != o.visible[i] {
			return false
		}
	}
	return true
}
