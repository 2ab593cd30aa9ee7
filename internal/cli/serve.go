package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/server"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/watch"
)

type serveOpts struct {
	addr    string
	noCache bool
	source  sourceFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a family tree over HTTP",
		Long: `Serve exposes /api/tree and /api/person/{id} over a file, SQLite or
MongoDB store, plus /api/layout and /api/render.{format} for rendered views.

When serving a file, edits to it are picked up without a restart.`,
		Example: `  familytree serve family.json
  familytree serve --driver sqlite --dsn family.db --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runServe(cmd.Context(), file, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.source.register(cmd, false)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, file string, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	sc := opts.source.storeConfig(cfg, file)
	st, err := store.Open(ctx, sc)
	if err != nil {
		return err
	}
	defer st.Close()

	ch, err := newCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()
	keyer := cache.NewScopedKeyer(nil, "serve")

	srv := server.New(st, ch, keyer, c.Logger, server.Config{
		Source:         sc.Source(),
		RequestTimeout: cfg.Server.RequestTimeout,
		View:           cfg.View,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, addr)
	})
	if fs, ok := st.(*store.FileStore); ok {
		g.Go(func() error {
			return watchStoreFile(gctx, fs.Path(), func() {
				if err := ch.Delete(context.WithoutCancel(gctx), keyer.TreeKey(sc.Source())); err != nil {
					logger.Warn("cache invalidation failed", "error", err)
				}
				logger.Info("data file changed", "path", fs.Path())
			}, func(err error) {
				logger.Warn("watch error", "path", fs.Path(), "error", err)
			})
		})
	}

	printInfo("Serving %s on %s", sc.Source(), StyleLink.Render(displayAddr(addr)))
	printDetail("Press Ctrl+C to stop")

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
		return nil
	}
	return err
}

// watchStoreFile runs a file watcher until ctx ends.
func watchStoreFile(ctx context.Context, path string, onChange func(), onError func(error)) error {
	w, err := watch.New(path, watch.WithOnChange(onChange), watch.WithOnError(onError))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// displayAddr turns ":8080" into a clickable URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
