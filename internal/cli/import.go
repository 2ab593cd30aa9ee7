package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/store"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON or YAML family tree into a SQLite or MongoDB store",
		Long: `Import replaces the contents of a store with the hierarchy in file.
Person ids must be present and unique.`,
		Example: `  familytree import family.json --driver sqlite --dsn family.db
  familytree import family.yaml --driver mongo --dsn mongodb://localhost:27017 --database genealogy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], src)
		},
	}
	src.register(cmd, false)
	return cmd
}

func (c *CLI) runImport(ctx context.Context, file string, f sourceFlags) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	sc := f.storeConfig(cfg, "")

	root, err := family.ReadFile(file)
	if err != nil {
		return err
	}
	if root == nil {
		return errors.New(errors.ErrCodeEmptyTree, "%s contains no family tree", file)
	}

	st, err := store.Open(ctx, sc)
	if err != nil {
		return err
	}
	defer st.Close()
	imp, ok := st.(store.Importer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "store driver %q does not support import", sc.Driver)
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Importing "+file+"...")
	spinner.Start()
	n, err := imp.Import(ctx, root)
	if err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.StopWithSuccess("Imported " + file)
	printKeyValue("Store", sc.Source())
	printKeyValue("Persons", StyleNumber.Render(strconv.Itoa(n)))
	prog.done("Import complete")
	printNextStep("Serve it", "familytree serve --driver "+sc.Driver+" --dsn "+sc.DSN)
	return nil
}
