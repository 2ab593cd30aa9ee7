package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/view"
	"github.com/matzehuels/familytree/pkg/viewport"
)

// DefaultMargin is the space around the content in full-tree exports.
const DefaultMargin = 40

// Card interior, relative to the card's top-left corner.
const (
	frameRadius   = 18
	innerInset    = 9
	portraitSize  = 104
	portraitTop   = 14
	nameBoxTop    = 126
	nameBoxHeight = 52
	nameBoxInset  = 12
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	viewport *viewport.Size
	margin   int
	frames   bool
}

// WithViewport renders what the view currently shows in a viewport of the
// given size, using the state's transform. Without it the whole tree is
// drawn at scale 1.
func WithViewport(vp viewport.Size) SVGOption {
	return func(r *svgRenderer) { r.viewport = &vp }
}

// WithMargin sets the margin of full-tree exports.
func WithMargin(m int) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithFrames draws the decorative double frame around each card.
func WithFrames() SVGOption { return func(r *svgRenderer) { r.frames = true } }

// RenderSVG draws st as SVG.
func RenderSVG(st *view.State, opts ...SVGOption) []byte {
	r := svgRenderer{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	var width, height int
	var transform string
	if r.viewport != nil {
		width, height = int(math.Ceil(r.viewport.Width)), int(math.Ceil(r.viewport.Height))
		t := st.Transform()
		transform = fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.TX), num(t.TY), num(t.Scale))
	} else {
		b := st.Bounds()
		width = int(math.Ceil(b.Width)) + 2*r.margin
		height = int(math.Ceil(b.Height)) + 2*r.margin
		transform = fmt.Sprintf("translate(%s,%s)", num(float64(r.margin)-b.X), num(float64(r.margin)-b.Y))
	}

	skin := st.Theme().Skin()

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+skin.Background)
	canvas.Gtransform(transform)

	canvas.Group(fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", skin.Link, num(skin.LinkWidth)))
	for i, l := range st.Links() {
		canvas.Path(l.Path(), fmt.Sprintf("opacity:%s", num(st.LinkOpacity(i))))
	}
	canvas.Gend()

	selected, hasSelected := st.Selected()
	for _, n := range st.Nodes() {
		drawNode(canvas, n, st.NodeOpacity(n.ID), r.frames, hasSelected && n.ID == selected)
	}

	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func drawNode(canvas *svg.SVG, n view.Node, opacity float64, frames, selected bool) {
	s := n.Skin
	x, y := int(math.Round(n.Card.X)), int(math.Round(n.Card.Y))
	w, h := int(n.Card.Width), int(n.Card.Height)

	attrs := []string{fmt.Sprintf(`class="node" data-id="%d" opacity="%s"`, n.ID, num(opacity))}
	if opacity < 1 {
		attrs = append(attrs, `pointer-events="none"`)
	}
	canvas.Group(strings.Join(attrs, " "))

	if frames {
		stroke := 2.6
		if selected {
			stroke = 4
		}
		canvas.Roundrect(x, y, w, h, frameRadius, frameRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", s.CardFill, s.Frame, num(stroke)))
		canvas.Roundrect(x+innerInset, y+innerInset, w-2*innerInset, h-2*innerInset, frameRadius-2, frameRadius-2,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", s.CardInner, s.FrameInner))
	} else if selected {
		canvas.Roundrect(x-4, y-4, w+8, h+8, frameRadius, frameRadius,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", s.FrameAccent))
	}

	px := x + (w-portraitSize)/2
	py := y + portraitTop
	canvas.Roundrect(px, py, portraitSize, portraitSize, 14, 14,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", s.PhotoBack, s.PhotoBorder))
	canvas.Image(px+6, py+6, portraitSize-12, portraitSize-12, attrEscape(n.Photo), `preserveAspectRatio="xMidYMid meet"`)

	bx := x + nameBoxInset
	by := y + nameBoxTop
	canvas.Roundrect(bx, by, w-2*nameBoxInset, nameBoxHeight, 10, 10,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", s.BoxBackground, s.BoxBorder))

	cx := x + w/2
	nameY := by + 22
	if n.Subtitle == "" {
		nameY = by + nameBoxHeight/2 + 6
	}
	canvas.Text(cx, nameY, n.Label,
		fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:16px;font-weight:bold;fill:%s", s.Name))
	if n.Subtitle != "" {
		canvas.Text(cx, by+40, n.Subtitle,
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:10px;fill:%s", s.Subtitle))
	}

	canvas.Gend()
}

// SkinCSS returns CSS custom properties for sk, for embedding pages that
// style cards themselves.
func SkinCSS(sk theme.Skin) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":root[data-theme=%q] {\n", sk.Theme)
	fmt.Fprintf(&b, "  --cardFill: %s;\n  --cardInner: %s;\n", sk.CardFill, sk.CardInner)
	fmt.Fprintf(&b, "  --boxBg: %s;\n  --boxBd: %s;\n", sk.BoxBackground, sk.BoxBorder)
	fmt.Fprintf(&b, "  --nameCol: %s;\n  --subCol: %s;\n", sk.Name, sk.Subtitle)
	fmt.Fprintf(&b, "  --photoBg: %s;\n  --photoBd: %s;\n", sk.PhotoBack, sk.PhotoBorder)
	b.WriteString("}\n")
	return b.String()
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func attrEscape(s string) string {
	return strings.NewReplacer(`"`, "%22", "<", "%3C", ">", "%3E").Replace(s)
}
