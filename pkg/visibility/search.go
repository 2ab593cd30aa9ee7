package visibility

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/matzehuels/familytree/pkg/tree"
)

// Index holds case-folded display names so repeated searches over the same
// tree skip re-folding every label.
type Index struct {
	tree   *tree.Tree
	folded []string
}

// NewIndex folds every label of t.
func NewIndex(t *tree.Tree) *Index {
	caser := cases.Fold()
	ix := &Index{tree: t, folded: make([]string, t.Len())}
	for i := range ix.folded {
		ix.folded[i] = caser.String(t.Label(tree.NodeID(i)))
	}
	return ix
}

// Normalize trims and case-folds a query.
func Normalize(query string) string {
	return cases.Fold().String(strings.TrimSpace(query))
}

// Search returns the nodes whose folded label contains the folded query. A
// blank query yields All.
func (ix *Index) Search(query string) Set {
	q := Normalize(query)
	if q == "" {
		return All(ix.tree)
	}
	s := Set{mode: ModeSearch, visible: make([]bool, len(ix.folded)), focus: tree.NoParent, query: q}
	for i, name := range ix.folded {
		if strings.Contains(name, q) {
			s.show(tree.NodeID(i))
		}
	}
	return s
}

// Search is a one-shot [Index.Search].
func Search(t *tree.Tree, query string) Set {
	return NewIndex(t).Search(query)
}
