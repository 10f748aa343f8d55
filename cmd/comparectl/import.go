package main

import (
	"fmt"

	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/storage"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a catalog file and store it in a sqlite database",
		Long: `Import loads the catalog file with the category schema, rejecting it on
missing or duplicate ids, and replaces the category in the sqlite database
the service reads with sqlite_path.

Example:
  comparectl import -c mobile-plans -f plans.json --db catalogs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.resolveCategory()
			if err != nil {
				return err
			}
			raw, err := opts.readRecords(cat.Name)
			if err != nil {
				return err
			}
			if _, err = catalog.Load(cat.Name, cat.Schema, raw, 1); err != nil {
				return err
			}
			db, err := storage.OpenSQLiteStorage(cmd.Context(), dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer db.Close()
			if err = db.Store(cmd.Context(), cat.Name, raw); err != nil {
				return fmt.Errorf("store %s: %w", cat.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s records\n", len(raw), cat.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "catalogs.db", "sqlite database path")
	return cmd
}
