// Command comparectl runs the filter, facet and compare engine locally against
// a catalog file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/matst80/compare-finder/pkg/types"
	"github.com/spf13/cobra"
)

type options struct {
	categoriesFile string
	category       string
	catalogFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "comparectl",
		Short: "Browse and compare a catalog from the command line",
		Long: `comparectl loads one category from a categories.yaml schema file and a
json catalog file, then runs facet, search and compare operations on it.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.categoriesFile, "categories", "categories.yaml", "category schema file")
	root.PersistentFlags().StringVarP(&opts.category, "category", "c", "", "category name (default: the first in the schema file)")
	root.PersistentFlags().StringVarP(&opts.catalogFile, "file", "f", "", "json catalog file (default: data/<category>.json)")

	root.AddCommand(newFacetsCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newCompareCmd(opts))
	root.AddCommand(newImportCmd(opts))
	return root
}

func (o *options) resolveCategory() (types.Category, error) {
	categories, err := catalog.LoadCategories(o.categoriesFile)
	if err != nil {
		return types.Category{}, fmt.Errorf("load categories: %w", err)
	}
	if len(categories) == 0 {
		return types.Category{}, fmt.Errorf("no categories in %s", o.categoriesFile)
	}
	if o.category == "" {
		return categories[0], nil
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Name == o.category {
			return c, nil
		}
		names = append(names, c.Name)
	}
	return types.Category{}, fmt.Errorf("%w %q (valid: %s)", catalog.ErrUnknownCategory, o.category, strings.Join(names, ", "))
}

func (o *options) readRecords(category string) ([]map[string]any, error) {
	path := o.catalogFile
	if path == "" {
		path = filepath.Join("data", category+".json")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	records := make([]map[string]any, 0)
	if err = jsoncompat.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func (o *options) loadCatalog() (*types.Catalog, error) {
	cat, err := o.resolveCategory()
	if err != nil {
		return nil, err
	}
	raw, err := o.readRecords(cat.Name)
	if err != nil {
		return nil, err
	}
	return catalog.Load(cat.Name, cat.Schema, raw, 1)
}

func writeJson(cmd *cobra.Command, v any) error {
	output, err := jsoncompat.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return err
}
