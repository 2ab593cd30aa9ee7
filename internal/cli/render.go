package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/theme"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	formats  []string
	theme    string
	width    int
	height   int
	policy   string
	focus    string
	query    string
	frames   bool
	detailed bool
	pngScale float64
	noCache  bool
	refresh  bool
	source   sourceFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{pngScale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a family tree to SVG, DOT, JSON, PNG or PDF",
		Long: `Render lays out a family tree and writes it in one or more formats.

The tree is read from the file argument (JSON or YAML), from a backend given
with --url, or from the store configured with --driver/--dsn or the config
file. With --width/--height and --policy the SVG is framed the way the
interactive viewer frames it.`,
		Example: `  familytree render family.json
  familytree render family.yaml -f svg,png --theme light
  familytree render --url http://localhost:8080 --focus 42 --width 1280 --height 800 --policy fit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runRender(cmd.Context(), file, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "card theme: dark, light (default: saved preference)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height in pixels")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "viewport policy: "+strings.Join(pipeline.ValidPolicies, ", "))
	cmd.Flags().StringVar(&opts.focus, "focus", "", "focus on a person id (ancestors and children stay visible)")
	cmd.Flags().StringVarP(&opts.query, "search", "s", "", "highlight persons whose name contains this text")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "draw the viewport frame in the SVG")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include birth dates and jobs in DOT labels")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG rasterisation scale")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached data but refresh the cache")
	opts.source.register(cmd, true)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, file string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}

	if opts.theme == "" {
		if th, err := theme.NewStore(cfg.Theme.File).Load(); err == nil {
			opts.theme = th.String()
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	src, err := c.openSource(ctx, opts.source, file, runner.Cache, opts.refresh)
	if err != nil {
		return err
	}
	defer src.Close()
	logger.Debug("rendering", "source", src.name, "formats", opts.formats)

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+src.name+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, src, pipeline.Options{
		Source:   src.cacheKey,
		Refresh:  opts.refresh,
		Theme:    opts.theme,
		Formats:  opts.formats,
		Width:    opts.width,
		Height:   opts.height,
		Policy:   opts.policy,
		Focus:    opts.focus,
		Query:    opts.query,
		Frames:   opts.frames,
		Detailed: opts.detailed,
		PNGScale: opts.pngScale,
		View:     cfg.View,
		Logger:   c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src.name)
	printStats(result.Stats.Persons, result.Stats.Warnings, result.CacheInfo.TreeHit)
	if result.Stats.Warnings > 0 {
		printWarning("Some records are incomplete; run with --verbose for details")
	}

	base := basePath(opts.output, file)
	for _, format := range opts.formats {
		path := outputPath(opts.output, base, format, len(opts.formats))
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(opts.formats)))
	return nil
}

// basePath derives the output base from -o or the input file. Known format
// extensions are stripped; with neither the base is "familytree".
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath is -o verbatim for a single format and base.format otherwise.
func outputPath(output, base, format string, formats int) string {
	if output != "" && formats == 1 {
		return output
	}
	return base + "." + format
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
