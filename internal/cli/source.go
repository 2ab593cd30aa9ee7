package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/client"
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/view"
)

// sourceFlags select where family data comes from. In order of precedence:
// a file argument, --url, --driver/--dsn, then the [store] section of the
// config file.
type sourceFlags struct {
	url      string
	driver   string
	dsn      string
	database string
}

func (f *sourceFlags) register(cmd *cobra.Command, withURL bool) {
	if withURL {
		cmd.Flags().StringVar(&f.url, "url", "", "familytree backend to read from")
	}
	cmd.Flags().StringVar(&f.driver, "driver", "", "store driver: file, sqlite, mongo")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "store path or connection URI")
	cmd.Flags().StringVar(&f.database, "database", "", "MongoDB database name")
}

// storeConfig merges the flags over the config file's store section.
func (f *sourceFlags) storeConfig(cfg *config.Config, file string) store.Config {
	if file != "" {
		return store.Config{Driver: store.DriverFile, DSN: file}
	}
	sc := cfg.Store
	if f.driver != "" {
		sc = store.Config{Driver: f.driver}
	}
	if f.dsn != "" {
		sc.DSN = f.dsn
	}
	if f.database != "" {
		sc.Database = f.database
	}
	return sc
}

// dataSource is a backend plus the name its tree is cached under. Local
// files are not cached since reading them is as cheap as a cache hit.
type dataSource struct {
	view.Backend
	name     string
	cacheKey string
	close    func() error
}

func (d *dataSource) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// openSource resolves the flags to a backend. Person records fetched from a
// remote backend are cached in ch.
func (c *CLI) openSource(ctx context.Context, f sourceFlags, file string, ch cache.Cache, refresh bool) (*dataSource, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	if file == "" && f.url != "" {
		cl, err := client.New(f.url,
			client.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
			client.WithRetry(cfg.Backend.Attempts, 200*time.Millisecond),
			client.WithCache(ch, nil, refresh),
		)
		if err != nil {
			return nil, err
		}
		return &dataSource{Backend: cl, name: cl.BaseURL(), cacheKey: cl.BaseURL()}, nil
	}

	sc := f.storeConfig(cfg, file)
	st, err := store.Open(ctx, sc)
	if err != nil {
		return nil, err
	}
	ds := &dataSource{Backend: st, name: sc.Source(), close: st.Close}
	if sc.Driver != store.DriverFile && sc.Driver != "" {
		ds.cacheKey = sc.Source()
	}
	return ds, nil
}
