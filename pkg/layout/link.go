package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/familytree/pkg/bounds"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Link is the drawn connector between a parent and a child: a cubic curve
// whose two control points sit at the vertical midpoint.
type Link struct {
	Edge   tree.Edge
	Source bounds.Point
	C1     bounds.Point
	C2     bounds.Point
	Target bounds.Point
}

// LinkFor returns the curve geometry of e.
func LinkFor(pos Positions, e tree.Edge, cfg Config) Link {
	s, t := pos[e.Parent], pos[e.Child]
	sy := s.Y + cfg.LinkSourceOffset
	ty := t.Y + cfg.LinkTargetOffset
	mid := (sy + ty) / 2
	return Link{
		Edge:   e,
		Source: bounds.Point{X: s.X, Y: sy},
		C1:     bounds.Point{X: s.X, Y: mid},
		C2:     bounds.Point{X: t.X, Y: mid},
		Target: bounds.Point{X: t.X, Y: ty},
	}
}

// Links returns the geometry of every edge of t in edge order.
func Links(t *tree.Tree, pos Positions, cfg Config) []Link {
	edges := t.Edges()
	out := make([]Link, len(edges))
	for i, e := range edges {
		out[i] = LinkFor(pos, e, cfg)
	}
	return out
}

// Path renders the link as SVG path data.
func (l Link) Path() string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, l.Source)
	b.WriteString(" C")
	writePoint(&b, l.C1)
	b.WriteString(" ")
	writePoint(&b, l.C2)
	b.WriteString(" ")
	writePoint(&b, l.Target)
	return b.String()
}

func writePoint(b *strings.Builder, p bounds.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}
