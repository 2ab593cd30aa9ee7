// Package pipeline runs the non-interactive load → layout → render path
// shared by the CLI render command and the HTTP server.
//
// # Stages
//
//  1. Load: fetch the nested hierarchy from a [Source], cached per source
//  2. Prepare: build the tree, compute the layout and apply focus, search
//     and a viewport fit to a [view.State]
//  3. Render: produce SVG, DOT, JSON, PNG or PDF, cached per input hash
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Source:  "family.json",
//	    Formats: []string{pipeline.FormatSVG},
//	    Focus:   "42",
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/view"
	"github.com/matzehuels/familytree/pkg/viewport"
	"github.com/matzehuels/familytree/pkg/visibility"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists the supported output formats in help-text order.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatJSON, FormatPNG, FormatPDF}

// Viewport policies for rendered output.
const (
	PolicyNone     = ""
	PolicyFit      = "fit"
	PolicyReadable = "readable"
	PolicyInitial  = "initial"
)

// ValidPolicies lists the accepted Policy values other than PolicyNone.
var ValidPolicies = []string{PolicyFit, PolicyReadable, PolicyInitial}

// DefaultPNGScale is the rasterisation scale for PNG output.
const DefaultPNGScale = 2.0

// Options configures a pipeline run. It is JSON-serializable so the server
// can accept it as a request body.
type Options struct {
	// Source identifies the data for caching ("" disables the tree cache).
	Source  string `json:"source,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	Theme   string   `json:"theme,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Width and Height set a viewport. With Policy they frame the output
	// like the interactive viewer; without a viewport the SVG shows the
	// whole tree at scale 1.
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Policy string `json:"policy,omitempty"`

	Focus string `json:"focus,omitempty"`
	Query string `json:"query,omitempty"`

	Frames   bool    `json:"frames,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	PNGScale float64 `json:"png_scale,omitempty"`

	View   view.Config `json:"-"`
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Theme == "" {
		o.Theme = string(theme.Default)
	}
	if _, err := theme.Parse(o.Theme); err != nil {
		return err
	}
	if o.Policy != PolicyNone && !slices.Contains(ValidPolicies, o.Policy) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid policy %q (must be one of: %s)", o.Policy, strings.Join(ValidPolicies, ", "))
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport size must not be negative")
	}
	if o.Policy != PolicyNone && (o.Width == 0 || o.Height == 0) {
		return errors.New(errors.ErrCodeInvalidInput, "policy %q needs a width and height", o.Policy)
	}
	if o.Focus != "" {
		if err := errors.ValidatePersonID(o.Focus); err != nil {
			return err
		}
	}
	if err := errors.ValidateQuery(o.Query); err != nil {
		return err
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	o.View.SetDefaults()
	if err := o.View.Layout.Validate(); err != nil {
		return err
	}
	if err := o.View.Viewport.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ThemeValue returns the parsed theme; call after ValidateAndSetDefaults.
func (o *Options) ThemeValue() theme.Theme {
	th, err := theme.Parse(o.Theme)
	if err != nil {
		return theme.Default
	}
	return th
}

// LayoutKeyOpts returns the layout cache key options.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.View.Layout
	return cache.LayoutKeyOpts{
		NodeWidth:         l.NodeWidth,
		NodeHeight:        l.NodeHeight,
		GapX:              l.GapX,
		GapY:              l.GapY,
		SiblingSeparation: l.SiblingSeparation,
		CousinSeparation:  l.CousinSeparation,
		CardOffsetY:       l.CardOffsetY,
		LinkSourceOffset:  l.LinkSourceOffset,
		LinkTargetOffset:  l.LinkTargetOffset,
	}
}

// settingsDigest hashes the viewport and opacity settings that affect drawn
// formats.
func (o *Options) settingsDigest() string {
	data, _ := json.Marshal(struct {
		Viewport viewport.Config    `json:"viewport"`
		Opacity  visibility.Opacity `json:"opacity"`
	}{o.View.Viewport, o.View.Opacity})
	return cache.Hash(data)
}

// ArtifactKeyOpts returns the artifact cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:   format,
		Theme:    o.Theme,
		Width:    o.Width,
		Height:   o.Height,
		Policy:   o.Policy,
		Focus:    o.Focus,
		Query:    o.Query,
		Frames:   o.Frames,
		Settings: o.settingsDigest(),
	}
	switch format {
	case FormatDOT:
		k = cache.ArtifactKeyOpts{Format: format, Theme: o.Theme, Detailed: o.Detailed}
	case FormatJSON:
		k = cache.ArtifactKeyOpts{Format: format}
	case FormatPNG:
		k.Scale = o.PNGScale
	}
	return k
}

// Result holds the outputs of a run.
type Result struct {
	Root     *family.PersonRecord
	Tree     *tree.Tree
	State    *view.State
	Snapshot layout.Snapshot

	// TreeHash is the content hash of the loaded hierarchy.
	TreeHash string

	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and timings.
type Stats struct {
	Persons    int
	Warnings   int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	TreeHit   bool
	RenderHit bool
}

func (s Stats) String() string {
	return fmt.Sprintf("%d persons, load %s, layout %s, render %s",
		s.Persons, s.LoadTime.Round(time.Millisecond), s.LayoutTime.Round(time.Millisecond), s.RenderTime.Round(time.Millisecond))
}
