package bounds

import "github.com/matzehuels/familytree/pkg/tree"

// Select computes bounds over the subset of points named by ids. Points are
// indexed by node id. Unknown ids are skipped.
func Select(points []Point, ids []tree.NodeID, card Card) Rect {
	sub := make([]Point, 0, len(ids))
	for _, id := range ids {
		if id >= 0 && int(id) < len(points) {
			sub = append(sub, points[id])
		}
	}
	return ComputeCard(sub, card)
}

// ForDepths computes bounds over the nodes of t whose depth lies in [lo, hi].
// The initial view uses depths 0 and 1.
func ForDepths(t *tree.Tree, points []Point, lo, hi int, card Card) Rect {
	return Select(points, t.AtDepth(lo, hi), card)
}
