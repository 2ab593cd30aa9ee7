package layout

import (
	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Positions holds one centre point per node, indexed by [tree.NodeID].
type Positions []bounds.Point

// At returns the position of id.
func (p Positions) At(id tree.NodeID) bounds.Point { return p[id] }

// Points exposes the positions as a plain point slice.
func (p Positions) Points() []bounds.Point { return p }

// Compute assigns tidy-tree coordinates to every node of t. A nil or empty
// tree yields nil.
func Compute(t *tree.Tree, cfg Config) Positions {
	if t == nil || t.Len() == 0 {
		return nil
	}
	cfg.SetDefaults()

	w := newWalker(t, cfg)
	t.PostOrder(w.firstWalk)
	w.secondWalk()

	dx, dy := cfg.StepX(), cfg.StepY()
	out := make(Positions, t.Len())
	for i, n := range t.Nodes() {
		out[i] = bounds.Point{X: w.nodes[i].x * dx, Y: float64(n.Depth) * dy}
	}
	return out
}

// =============================================================================
// Buchheim–Walker
// =============================================================================

const none = -1

// wnode is the per-node scratch state of a layout pass. Indices refer to
// walker.nodes; the last slot is a synthetic parent of the root.
type wnode struct {
	parent   int
	children []int
	index    int // among siblings

	z      float64 // prelim
	m      float64 // modifier
	c      float64 // change
	s      float64 // shift
	t      int     // thread
	a      int     // ancestor
	defAnc int     // default ancestor of this node's children
	x      float64
}

type walker struct {
	tree  *tree.Tree
	cfg   Config
	nodes []wnode
	super int
}

func newWalker(t *tree.Tree, cfg Config) *walker {
	n := t.Len()
	w := &walker{tree: t, cfg: cfg, nodes: make([]wnode, n+1), super: n}
	for i, node := range t.Nodes() {
		parent := int(node.Parent)
		if node.Parent == tree.NoParent {
			parent = n
		}
		children := make([]int, len(node.Children))
		for j, c := range node.Children {
			children[j] = int(c)
		}
		w.nodes[i] = wnode{
			parent:   parent,
			children: children,
			index:    node.Index,
			t:        none,
			a:        i,
			defAnc:   none,
		}
	}
	w.nodes[n] = wnode{parent: none, children: []int{0}, t: none, a: n, defAnc: none}
	return w
}

func (w *walker) separation(a, b int) float64 {
	if w.nodes[a].parent == w.nodes[b].parent {
		return w.cfg.SiblingSeparation
	}
	return w.cfg.CousinSeparation
}

func (w *walker) firstWalk(id tree.NodeID) {
	v := int(id)
	vn := &w.nodes[v]
	siblings := w.nodes[vn.parent].children
	left := none
	if vn.index > 0 {
		left = siblings[vn.index-1]
	}

	if len(vn.children) > 0 {
		w.executeShifts(v)
		first, last := vn.children[0], vn.children[len(vn.children)-1]
		mid := (w.nodes[first].z + w.nodes[last].z) / 2
		if left != none {
			vn.z = w.nodes[left].z + w.separation(v, left)
			vn.m = vn.z - mid
		} else {
			vn.z = mid
		}
	} else if left != none {
		vn.z = w.nodes[left].z + w.separation(v, left)
	}

	p := &w.nodes[vn.parent]
	anc := p.defAnc
	if anc == none {
		anc = siblings[0]
	}
	p.defAnc = w.apportion(v, left, anc)
}

// secondWalk resolves final x values in pre-order. Arena order is pre-order,
// so every parent is finished before its children.
func (w *walker) secondWalk() {
	w.nodes[w.super].m = -w.nodes[0].z
	for i := 0; i < w.super; i++ {
		n := &w.nodes[i]
		pm := w.nodes[n.parent].m
		n.x = n.z + pm
		n.m += pm
	}
}

// apportion merges the subtree rooted at v into the forest of its left
// siblings, shifting v right where contours come too close.
func (w *walker) apportion(v, left, ancestor int) int {
	if left == none {
		return ancestor
	}
	n := w.nodes

	vip, vop := v, v
	vim := left
	vom := n[n[vip].parent].children[0]
	sip, sop := n[vip].m, n[vop].m
	sim, som := n[vim].m, n[vom].m

	for {
		vim = w.nextRight(vim)
		vip = w.nextLeft(vip)
		if vim == none || vip == none {
			break
		}
		vom = w.nextLeft(vom)
		vop = w.nextRight(vop)
		n[vop].a = v

		shift := n[vim].z + sim - n[vip].z - sip + w.separation(vim, vip)
		if shift > 0 {
			w.moveSubtree(w.nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += n[vim].m
		sip += n[vip].m
		som += n[vom].m
		sop += n[vop].m
	}

	if vim != none && w.nextRight(vop) == none {
		n[vop].t = vim
		n[vop].m += sim - sop
	}
	if vip != none && w.nextLeft(vom) == none {
		n[vom].t = vip
		n[vom].m += sip - som
		ancestor = v
	}
	return ancestor
}

func (w *walker) nextLeft(v int) int {
	if c := w.nodes[v].children; len(c) > 0 {
		return c[0]
	}
	return w.nodes[v].t
}

func (w *walker) nextRight(v int) int {
	if c := w.nodes[v].children; len(c) > 0 {
		return c[len(c)-1]
	}
	return w.nodes[v].t
}

func (w *walker) nextAncestor(vim, v, ancestor int) int {
	if a := w.nodes[vim].a; w.nodes[a].parent == w.nodes[v].parent {
		return a
	}
	return ancestor
}

func (w *walker) moveSubtree(wm, wp int, shift float64) {
	m, p := &w.nodes[wm], &w.nodes[wp]
	change := shift / float64(p.index-m.index)
	p.c -= change
	p.s += shift
	m.c += change
	p.z += shift
	p.m += shift
}

func (w *walker) executeShifts(v int) {
	var shift, change float64
	children := w.nodes[v].children
	for i := len(children) - 1; i >= 0; i-- {
		c := &w.nodes[children[i]]
		c.z += shift
		c.m += shift
		change += c.c
		shift += c.s + change
	}
}
