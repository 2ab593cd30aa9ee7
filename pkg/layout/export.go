package layout

import (
	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/tree"
)

// =============================================================================
// Snapshot - serialization format
// =============================================================================

// Snapshot is the serializable form of a computed layout, used for JSON output
// and API responses.
type Snapshot struct {
	Bounds bounds.Rect    `json:"bounds"`
	Card   bounds.Card    `json:"card"`
	Nodes  []SnapshotNode `json:"nodes"`
	Links  []SnapshotLink `json:"links,omitempty"`
}

// SnapshotNode is one positioned person.
type SnapshotNode struct {
	ID       family.ID `json:"id"`
	Name     string    `json:"name"`
	Subtitle string    `json:"subtitle,omitempty"`
	Photo    string    `json:"photo"`
	Depth    int       `json:"depth"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
}

// SnapshotLink is one parent→child curve.
type SnapshotLink struct {
	Parent family.ID `json:"parent"`
	Child  family.ID `json:"child"`
	Path   string    `json:"path"`
}

// Export converts positions of t into a Snapshot.
func Export(t *tree.Tree, pos Positions, cfg Config) Snapshot {
	cfg.SetDefaults()
	card := cfg.Card()
	snap := Snapshot{
		Bounds: bounds.ComputeCard(pos, card),
		Card:   card,
		Nodes:  make([]SnapshotNode, 0, t.Len()),
	}
	for i, n := range t.Nodes() {
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:       n.Record.ID,
			Name:     n.Record.DisplayName(),
			Subtitle: n.Record.Subtitle(),
			Photo:    n.Record.Photo(),
			Depth:    n.Depth,
			X:        pos[i].X,
			Y:        pos[i].Y,
		})
	}
	for _, l := range Links(t, pos, cfg) {
		snap.Links = append(snap.Links, SnapshotLink{
			Parent: t.Node(l.Edge.Parent).Record.ID,
			Child:  t.Node(l.Edge.Child).Record.ID,
			Path:   l.Path(),
		})
	}
	return snap
}
