// Package tree wraps a nested person hierarchy into an arena of parent-linked
// nodes.
//
// Nodes live in a single slice in pre-order (root first, children in their
// given order). A node's parent is stored as an index into that slice rather
// than a pointer, so the structure has no ownership cycles while ancestor
// walks stay O(depth).
//
//	t, err := tree.Build(root)
//	if errors.Is(err, errors.ErrCodeEmptyTree) {
//	    // Show the empty state
//	}
//	for _, id := range t.Ancestors(t.MustLookup("42")) {
//	    fmt.Println(t.Label(id))
//	}
//
// A built tree is read-only and safe for concurrent reads.
package tree

import (
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// NodeID is the arena index of a node. The root is always 0.
type NodeID int

// NoParent is the parent link of the root node.
const NoParent NodeID = -1

// Root is the id of the root node of every non-empty tree.
const Root NodeID = 0

// Node wraps one person record.
type Node struct {
	ID       NodeID
	Record   *family.PersonRecord
	Parent   NodeID   // Non-owning link; NoParent for the root
	Children []NodeID // Owned, in input order
	Depth    int      // Root = 0
	Index    int      // Position among its siblings
}

// IsRoot reports whether n is the root.
func (n *Node) IsRoot() bool { return n.Parent == NoParent }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Edge connects a parent to one of its children.
type Edge struct {
	Parent NodeID
	Child  NodeID
}

// Tree is an arena of nodes built from a nested record.
type Tree struct {
	nodes    []Node
	byPerson map[family.ID]NodeID
	maxDepth int
	warnings []errors.Warning
}

// Build wraps root and all of its descendants. It returns an
// [errors.ErrCodeEmptyTree] error when root is nil. Shape problems in
// individual records (missing names, blank photos) never fail the build;
// they are collected in [Tree.Warnings].
func Build(root *family.PersonRecord) (*Tree, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeEmptyTree, "no family tree data")
	}

	t := &Tree{
		nodes:    make([]Node, 0, root.Count()),
		byPerson: make(map[family.ID]NodeID),
	}
	t.add(root, NoParent, 0, 0)
	return t, nil
}

func (t *Tree) add(rec *family.PersonRecord, parent NodeID, depth, index int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		ID:     id,
		Record: rec,
		Parent: parent,
		Depth:  depth,
		Index:  index,
	})
	if _, seen := t.byPerson[rec.ID]; !seen && rec.ID != "" {
		t.byPerson[rec.ID] = id
	}
	if depth > t.maxDepth {
		t.maxDepth = depth
	}
	t.warnings = append(t.warnings, rec.Warnings()...)

	if len(rec.Children) > 0 {
		children := make([]NodeID, len(rec.Children))
		for i := range rec.Children {
			children[i] = t.add(&rec.Children[i], id, depth+1, i)
		}
		t.nodes[id].Children = children
	}
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id. It panics if id is out of range.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Valid reports whether id names a node of t.
func (t *Tree) Valid(id NodeID) bool { return id >= 0 && int(id) < len(t.nodes) }

// Nodes returns all nodes in pre-order. The slice must not be modified.
func (t *Tree) Nodes() []Node { return t.nodes }

// MaxDepth returns the depth of the deepest node.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Warnings returns the non-fatal record conditions found while building.
func (t *Tree) Warnings() []errors.Warning { return t.warnings }

// Label returns the display name of a node ("" when the record has none).
func (t *Tree) Label(id NodeID) string { return t.nodes[id].Record.DisplayName() }

// Children returns the children of id in order.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].Children }

// Parent returns the parent of id, or false for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p := t.nodes[id].Parent
	return p, p != NoParent
}

// Ancestors returns the chain from id's parent up to the root, nearest first.
// Siblings at each level are not included.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.nodes[id].Parent; p != NoParent; p = t.nodes[p].Parent {
		out = append(out, p)
	}
	return out
}

// SameParent reports whether a and b are siblings.
func (t *Tree) SameParent(a, b NodeID) bool {
	return t.nodes[a].Parent == t.nodes[b].Parent
}

// Lookup maps a person id to its node. When an id repeats, the first node in
// pre-order wins.
func (t *Tree) Lookup(person family.ID) (NodeID, bool) {
	id, ok := t.byPerson[person]
	return id, ok
}

// MustLookup is like Lookup but panics when the person is unknown. It is
// intended for tests and examples.
func (t *Tree) MustLookup(person family.ID) NodeID {
	id, ok := t.Lookup(person)
	if !ok {
		panic("tree: unknown person " + string(person))
	}
	return id
}

// AtDepth returns the nodes whose depth is within [lo, hi], in pre-order.
func (t *Tree) AtDepth(lo, hi int) []NodeID {
	var out []NodeID
	for i := range t.nodes {
		if d := t.nodes[i].Depth; d >= lo && d <= hi {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Edges returns every parent→child link in pre-order of the child.
func (t *Tree) Edges() []Edge {
	if len(t.nodes) < 2 {
		return nil
	}
	out := make([]Edge, 0, len(t.nodes)-1)
	for i := 1; i < len(t.nodes); i++ {
		out = append(out, Edge{Parent: t.nodes[i].Parent, Child: NodeID(i)})
	}
	return out
}

// PostOrder calls fn for every node, children before their parent.
func (t *Tree) PostOrder(fn func(id NodeID)) {
	if len(t.nodes) == 0 {
		return
	}
	t.postOrder(Root, fn)
}

func (t *Tree) postOrder(id NodeID, fn func(NodeID)) {
	for _, c := range t.nodes[id].Children {
		t.postOrder(c, fn)
	}
	fn(id)
}
