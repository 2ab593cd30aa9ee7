package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed adds birth date and job to each label.
	Detailed bool
	// Theme picks the colours; empty uses theme.Default.
	Theme theme.Theme
}

// ToDOT describes t as a top-down Graphviz digraph. Node names are the arena
// ids ("n0", "n1", ...), so duplicate person ids never merge nodes.
func ToDOT(t *tree.Tree, opts DOTOptions) string {
	th := opts.Theme
	if !th.Valid() {
		th = theme.Default
	}
	sk := th.Skin()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", sk.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=%q, color=%q, fontcolor=%q, fontsize=14, margin=\"0.2,0.1\"];\n",
		sk.BoxBackground, sk.Frame, sk.Name)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2, arrowhead=none];\n", sk.Link)
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range t.Nodes() {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", n.ID, fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Parent, e.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n tree.Node, detailed bool) string {
	label := n.Record.DisplayName()
	if !detailed {
		return label
	}
	parts := []string{label}
	if b := n.Record.BirthDate; b != "" {
		parts = append(parts, b)
	}
	if j := n.Record.Job; j != "" {
		parts = append(parts, j)
	}
	return strings.Join(parts, "\n")
}

// RenderDOT lays out a DOT graph with Graphviz and returns SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's pt-sized root element to a plain
// pixel viewBox so the output scales like RenderSVG output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
