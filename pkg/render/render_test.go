package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/view"
	"github.com/matzehuels/familytree/pkg/viewport"
)

func sample(t *testing.T) *tree.Tree {
	t.Helper()
	root := &family.PersonRecord{
		ID: "1", Name: "Root <Elder>", BirthDate: "1901",
		Children: []family.PersonRecord{
			{ID: "2", Name: "Ali", Job: "Farmer", PhotoURL: "/img/ali.jpg"},
			{ID: "3", Name: "Omar"},
		},
	}
	tr, err := tree.Build(root)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), DOTOptions{})

	for _, want := range []string{"digraph G", `n0 [label="Root <Elder>"]`, "n0 -> n1;", "n0 -> n2;", "#8B5E3C"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(t), DOTOptions{Detailed: true, Theme: theme.Light})
	if !strings.Contains(dot, `Root <Elder>\n1901`) {
		t.Errorf("detailed label missing birth date:\n%s", dot)
	}
	if !strings.Contains(dot, `Ali\nFarmer`) {
		t.Errorf("detailed label missing job:\n%s", dot)
	}
	if !strings.Contains(dot, theme.Light.Skin().Background) {
		t.Error("light theme colours not used")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("input without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	st, err := view.NewState(sample(t), view.DefaultConfig(), theme.Dark)
	if err != nil {
		t.Fatal(err)
	}
	out := string(RenderSVG(st, WithFrames()))

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Errorf("missing XML prolog: %.60s", out)
	}
	if n := strings.Count(out, `class="node"`); n != 3 {
		t.Errorf("rendered %d nodes, want 3", n)
	}
	if n := strings.Count(out, "<path"); n != 2 {
		t.Errorf("rendered %d links, want 2", n)
	}
	if !strings.Contains(out, "Root &lt;Elder&gt;") {
		t.Error("label not escaped")
	}
	if !strings.Contains(out, family.PlaceholderPhoto) || !strings.Contains(out, "/img/ali.jpg") {
		t.Error("photos missing")
	}
	if !strings.Contains(out, "#16191E") {
		t.Error("dark skin not applied")
	}
}

func TestRenderSVGReflectsState(t *testing.T) {
	tr := sample(t)
	st, err := view.NewState(tr, view.DefaultConfig(), theme.Dark)
	if err != nil {
		t.Fatal(err)
	}
	st.Focus(tr.MustLookup("2"))
	st.ApplyTheme(theme.Light)
	st.FitToScreen(viewport.Size{Width: 800, Height: 600})
	st.Viewport().Finish()

	out := string(RenderSVG(st, WithViewport(viewport.Size{Width: 800, Height: 600})))
	if !strings.Contains(out, `width="800" height="600"`) {
		t.Error("viewport size not used")
	}
	if !strings.Contains(out, `opacity="0.07" pointer-events="none"`) {
		t.Error("dimmed node not rendered dimmed")
	}
	if !strings.Contains(out, "opacity:0.04") {
		t.Error("dimmed link not rendered dimmed")
	}
	if strings.Contains(out, "#16191E") {
		t.Error("dark colours left after switching to light")
	}
	if !strings.Contains(out, "scale(") {
		t.Error("transform not applied")
	}
}

func TestSkinCSS(t *testing.T) {
	css := SkinCSS(theme.Dark.Skin())
	if !strings.Contains(css, `:root[data-theme="dark"]`) || !strings.Contains(css, "--photoBd: #D4AF37;") {
		t.Errorf("SkinCSS() = %s", css)
	}
}
