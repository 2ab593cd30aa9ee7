package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot,json", []string{"svg", "dot", "json"}},
		{"svg, png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "data/family.json", "data/family"},
		{"from yaml input", "", "family.yaml", "family"},
		{"no input", "", "", "familytree"},
		{"output with format ext", "out/tree.svg", "family.json", "out/tree"},
		{"output without ext", "out/tree", "family.json", "out/tree"},
		{"output with other ext", "out/tree.v2", "family.json", "out/tree.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("tree.svg", "tree", "svg", 1); got != "tree.svg" {
		t.Errorf("single format = %q", got)
	}
	if got := outputPath("tree.svg", "tree", "dot", 2); got != "tree.dot" {
		t.Errorf("multiple formats = %q", got)
	}
	if got := outputPath("", "family", "json", 1); got != "family.json" {
		t.Errorf("derived = %q", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	input := writeLineage(t, dir)
	base := filepath.Join(dir, "out", "tree")

	_, err := execute(t, "render", input, "-f", "svg,dot,json", "-o", base, "--theme", "light", "--focus", "2")
	if err != nil {
		t.Fatal(err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Alia") {
		t.Error("svg output missing content")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output = %.40q", dot)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Error(err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := isolate(t)
	input := writeLineage(t, dir)
	out := filepath.Join(dir, "x.svg")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", input, "-f", "gif", "-o", out}, errors.ErrCodeInvalidFormat},
		{"unknown focus", []string{"render", input, "--focus", "99", "-o", out}, errors.ErrCodeNotFound},
		{"missing file", []string{"render", filepath.Join(dir, "none.json"), "-o", out}, ""},
		{"bad driver", []string{"render", "--driver", "csv", "-o", out}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.code != "" && !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
