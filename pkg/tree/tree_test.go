package tree

import (
	"slices"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// lineage builds root→A→{B,C}, B→{D,E}, D→{F}.
func lineage() *family.PersonRecord {
	return &family.PersonRecord{ID: "root", Name: "Root", Children: []family.PersonRecord{
		{ID: "A", Name: "A", Children: []family.PersonRecord{
			{ID: "B", Name: "B", Children: []family.PersonRecord{
				{ID: "D", Name: "D", Children: []family.PersonRecord{{ID: "F", Name: "F"}}},
				{ID: "E", Name: "E"},
			}},
			{ID: "C", Name: "C"},
		}},
	}}
}

func labels(t *Tree, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.Label(id)
	}
	return out
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, errors.ErrCodeEmptyTree) {
		t.Fatalf("Build(nil) error = %v, want %s", err, errors.ErrCodeEmptyTree)
	}
}

func TestBuildLinks(t *testing.T) {
	tr, err := Build(lineage())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tr.Len() != 7 {
		t.Fatalf("Len = %d, want 7", tr.Len())
	}
	if !tr.Node(Root).IsRoot() {
		t.Error("node 0 should be the root")
	}

	for _, n := range tr.Nodes() {
		if n.IsRoot() {
			if n.Depth != 0 {
				t.Errorf("root depth = %d", n.Depth)
			}
			continue
		}
		p := tr.Node(n.Parent)
		if !slices.Contains(p.Children, n.ID) {
			t.Errorf("node %s missing from parent %s children", tr.Label(n.ID), tr.Label(p.ID))
		}
		if n.Depth != p.Depth+1 {
			t.Errorf("node %s depth = %d, parent depth = %d", tr.Label(n.ID), n.Depth, p.Depth)
		}
		if p.Children[n.Index] != n.ID {
			t.Errorf("node %s index %d does not match parent's child order", tr.Label(n.ID), n.Index)
		}
	}

	a := tr.MustLookup("A")
	if got := labels(tr, tr.Children(a)); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("children of A = %v, want [B C]", got)
	}
	if tr.MaxDepth() != 4 {
		t.Errorf("MaxDepth = %d, want 4", tr.MaxDepth())
	}
}

func TestAncestors(t *testing.T) {
	tr, _ := Build(lineage())
	got := labels(tr, tr.Ancestors(tr.MustLookup("F")))
	if !slices.Equal(got, []string{"D", "B", "A", "Root"}) {
		t.Errorf("Ancestors(F) = %v, want [D B A Root]", got)
	}
	if anc := tr.Ancestors(Root); len(anc) != 0 {
		t.Errorf("Ancestors(root) = %v, want none", anc)
	}
	if _, ok := tr.Parent(Root); ok {
		t.Error("root must not have a parent")
	}
}

func TestAtDepthAndEdges(t *testing.T) {
	tr, _ := Build(lineage())
	if got := labels(tr, tr.AtDepth(0, 1)); !slices.Equal(got, []string{"Root", "A"}) {
		t.Errorf("AtDepth(0,1) = %v", got)
	}
	if got := labels(tr, tr.AtDepth(3, 3)); !slices.Equal(got, []string{"D", "E"}) {
		t.Errorf("AtDepth(3,3) = %v", got)
	}
	if edges := tr.Edges(); len(edges) != tr.Len()-1 {
		t.Errorf("Edges = %d, want %d", len(edges), tr.Len()-1)
	}
}

func TestPostOrder(t *testing.T) {
	tr, _ := Build(lineage())
	var order []string
	tr.PostOrder(func(id NodeID) { order = append(order, tr.Label(id)) })
	want := []string{"F", "D", "E", "B", "C", "A", "Root"}
	if !slices.Equal(order, want) {
		t.Errorf("PostOrder = %v, want %v", order, want)
	}
}

func TestSameParent(t *testing.T) {
	tr, _ := Build(lineage())
	if !tr.SameParent(tr.MustLookup("B"), tr.MustLookup("C")) {
		t.Error("B and C are siblings")
	}
	if tr.SameParent(tr.MustLookup("E"), tr.MustLookup("C")) {
		t.Error("E and C are cousins, not siblings")
	}
}

func TestBuildCoercesMissingName(t *testing.T) {
	rec := &family.PersonRecord{ID: "1", Name: "Root", PhotoURL: "/r.png", Children: []family.PersonRecord{{ID: "2", PhotoURL: "/c.png"}}}
	tr, err := Build(rec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tr.Label(tr.MustLookup("2")); got != "" {
		t.Errorf("label = %q, want empty", got)
	}
	ws := tr.Warnings()
	if len(ws) != 1 || ws[0].Code != errors.ErrCodeMissingField {
		t.Errorf("Warnings = %v, want one MISSING_FIELD", ws)
	}
}

func TestLookupDuplicateIDs(t *testing.T) {
	rec := &family.PersonRecord{ID: "1", Name: "A", Children: []family.PersonRecord{{ID: "1", Name: "B"}}}
	tr, _ := Build(rec)
	if id, _ := tr.Lookup("1"); id != Root {
		t.Errorf("Lookup(1) = %d, want first occurrence (root)", id)
	}
}
