package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/tree"
	"github.com/matzehuels/familytree/pkg/view"
	"github.com/matzehuels/familytree/pkg/viewport"
)

// Source supplies the nested hierarchy. [view.Backend] implementations
// and store.Store both satisfy it.
type Source interface {
	Tree(ctx context.Context) (*family.PersonRecord, error)
}

// Runner executes the pipeline with caching. It keeps no per-run state and
// may be shared across goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → prepare → render.
func (r *Runner) Execute(ctx context.Context, src Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	root, hit, err := r.LoadWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	res.Root = root
	res.Stats.LoadTime = time.Since(start)
	res.Stats.Persons = root.Count()
	res.CacheInfo.TreeHit = hit
	if data, err := family.Marshal(root); err == nil {
		res.TreeHash = cache.Hash(data)
	}
	r.Logger.Info("loaded tree", "persons", res.Stats.Persons, "cached", hit, "duration", res.Stats.LoadTime)

	start = time.Now()
	st, err := r.Prepare(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	res.State = st
	res.Tree = st.Tree()
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Warnings = len(st.Tree().Warnings())
	res.Snapshot = layout.Export(st.Tree(), st.Positions(), opts.View.Layout)
	r.Logger.Info("computed layout", "nodes", st.Tree().Len(), "depth", st.Tree().MaxDepth(), "duration", res.Stats.LayoutTime)

	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, st, res.TreeHash, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = renderHit
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", renderHit, "duration", res.Stats.RenderTime)

	return res, nil
}

// LoadWithCacheInfo fetches the hierarchy, consulting the tree cache when
// opts.Source is set. Fetch failures are LOAD_FAILED; a source without data
// is EMPTY_TREE.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src Source, opts Options) (*family.PersonRecord, bool, error) {
	key := ""
	if opts.Source != "" {
		key = r.Keyer.TreeKey(opts.Source)
	}
	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if root, err := family.Unmarshal(data); err == nil && root != nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return root, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()
	root, err := src.Tree(ctx)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Source, 0, time.Since(start), err)
		if errors.GetCode(err) == errors.ErrCodeLoadFailed {
			return nil, false, err
		}
		return nil, false, errors.Wrap(errors.ErrCodeLoadFailed, err, "load tree")
	}
	hooks.OnLoadComplete(ctx, opts.Source, root.Count(), time.Since(start), nil)
	if root == nil {
		return nil, false, errors.New(errors.ErrCodeEmptyTree, "no family tree data")
	}

	if key != "" {
		if data, err := family.Marshal(root); err == nil {
			if r.Cache.Set(ctx, key, data, cache.TTLTree) == nil {
				observability.Cache().OnCacheSet(ctx, "tree", len(data))
			}
		}
	}
	return root, false, nil
}

// Load is LoadWithCacheInfo without the hit flag.
func (r *Runner) Load(ctx context.Context, src Source, opts Options) (*family.PersonRecord, error) {
	root, _, err := r.LoadWithCacheInfo(ctx, src, opts)
	return root, err
}

// Prepare builds the view state for root: layout, theme, focus or search,
// then the viewport policy with its transition finished.
func (r *Runner) Prepare(ctx context.Context, root *family.PersonRecord, opts Options) (*view.State, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	t, err := tree.Build(root)
	if err != nil {
		return nil, err
	}
	for _, w := range t.Warnings() {
		opts.Logger.Debug("record warning", "warning", w.String())
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, t.Len())
	start := time.Now()
	st, err := view.NewState(t, opts.View, opts.ThemeValue())
	if err != nil {
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, t.Len(), time.Since(start))

	switch {
	case opts.Focus != "":
		id, ok := t.Lookup(family.ID(opts.Focus))
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "person %q not found", opts.Focus)
		}
		st.Focus(id)
	case opts.Query != "":
		if err := st.Search(opts.Query); err != nil {
			return nil, err
		}
	}

	vp := viewport.Size{Width: float64(opts.Width), Height: float64(opts.Height)}
	switch opts.Policy {
	case PolicyFit:
		st.FitToScreen(vp)
	case PolicyReadable:
		st.FitReadable(vp)
	case PolicyInitial:
		st.InitialView(vp)
	}
	st.Viewport().Finish()
	return st, nil
}

// RenderWithCacheInfo renders every requested format. Artifacts are cached
// under treeHash; the hit flag is true only when every format came from
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, st *view.State, treeHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutHash := ""
	if treeHash != "" {
		layoutHash = cache.Hash([]byte(r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := ""
		if layoutHash != "" {
			key = r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := r.renderFormat(ctx, st, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if key != "" && r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allHit, nil
}

// Render is RenderWithCacheInfo without caching.
func (r *Runner) Render(ctx context.Context, st *view.State, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, st, "", opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, st *view.State, format string, opts Options) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err) }()

	switch format {
	case FormatSVG:
		return r.svg(st, opts), nil
	case FormatDOT:
		return []byte(render.ToDOT(st.Tree(), render.DOTOptions{Detailed: opts.Detailed, Theme: st.Theme()})), nil
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(layout.Export(st.Tree(), st.Positions(), opts.View.Layout)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatPNG:
		return render.ToPNG(ctx, r.svg(st, opts), opts.PNGScale)
	case FormatPDF:
		return render.ToPDF(ctx, r.svg(st, opts))
	default:
		return nil, ValidateFormat(format)
	}
}

func (r *Runner) svg(st *view.State, opts Options) []byte {
	var svgOpts []render.SVGOption
	if opts.Width > 0 && opts.Height > 0 {
		svgOpts = append(svgOpts, render.WithViewport(viewport.Size{Width: float64(opts.Width), Height: float64(opts.Height)}))
	}
	if opts.Frames {
		svgOpts = append(svgOpts, render.WithFrames())
	}
	return render.RenderSVG(st, svgOpts...)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
