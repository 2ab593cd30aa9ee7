package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/theme"
)

// themeCommand creates the theme preference command.
func (c *CLI) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the saved light/dark theme",
		Long: `The theme preference is shared by browse sessions and rendering defaults.
Running browse sessions follow changes made with set or toggle.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the saved theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.themeStore()
			if err != nil {
				return err
			}
			th, err := st.Load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), th)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Save a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := theme.Parse(args[0])
			if err != nil {
				return err
			}
			return c.saveTheme(th)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.themeStore()
			if err != nil {
				return err
			}
			th, err := st.Load()
			if err != nil {
				return err
			}
			return c.saveTheme(th.Toggle())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print the theme whenever the preference file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watchTheme(cmd.Context(), cmd.OutOrStdout())
		},
	})

	return cmd
}

func (c *CLI) themeStore() (*theme.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return theme.NewStore(cfg.Theme.File), nil
}

func (c *CLI) saveTheme(th theme.Theme) error {
	st, err := c.themeStore()
	if err != nil {
		return err
	}
	if err := st.Save(th); err != nil {
		return err
	}
	printSuccess("Theme set to %s", StyleHighlight.Render(th.String()))
	printDetail("Saved to %s", st.Path())
	return nil
}

// watchTheme prints the current theme, then every change until ctx ends.
func (c *CLI) watchTheme(ctx context.Context, w io.Writer) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}
	st := theme.NewStore(cfg.Theme.File)
	initial, err := st.Load()
	if err != nil {
		return err
	}

	n := theme.NewNotifier(initial)
	unsubscribe := n.OnThemeChanged(func(th theme.Theme) {
		fmt.Fprintln(w, th)
	})
	defer unsubscribe()

	watcher, err := st.Watch(ctx, n, cfg.View.Debounce, func(err error) {
		logger.Warn("theme preference unreadable", "path", st.Path(), "error", err)
	})
	if err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintln(w, initial)
	<-ctx.Done()
	return nil
}
