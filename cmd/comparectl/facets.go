package main

import (
	"github.com/matst80/compare-finder/pkg/facet"
	"github.com/spf13/cobra"
)

func newFacetsCmd(opts *options) *cobra.Command {
	filters := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the options of every facet and their counts",
		Long: `Facets prints the distinct values of every key facet and the counts
for the records matching the given filters.

Example:
  comparectl facets --str provider:Robi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			sr, err := filters.request()
			if err != nil {
				return err
			}
			return writeJson(cmd, map[string]any{
				"options": facet.CatalogFacetIndex(c),
				"facets":  facet.Counts(c, sr.Filters, c.Schema.FilterNames()),
			})
		},
	}
	filters.register(cmd)
	return cmd
}
