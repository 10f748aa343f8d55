package main

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/matst80/compare-finder/pkg/index"
	"github.com/matst80/compare-finder/pkg/types"
	"github.com/spf13/cobra"
)

// filterFlags mirrors the query parameters of the search endpoint.
type filterFlags struct {
	query   string
	str     []string
	rng     []string
	boolean []string
	sort    string
	page    int
	size    int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "free text search")
	cmd.Flags().StringArrayVar(&f.str, "str", nil, "key filter <facet>:<a>||<b>")
	cmd.Flags().StringArrayVar(&f.rng, "rng", nil, "range filter <facet>:<min>-<max> or <facet>:<min>-")
	cmd.Flags().StringArrayVar(&f.boolean, "bool", nil, "bool filter <facet>:<true|false>")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", types.DefaultSort, "sort field, <field>_desc for descending")
	cmd.Flags().IntVar(&f.page, "page", 0, "page number")
	cmd.Flags().IntVar(&f.size, "size", 40, "page size")
}

func (f *filterFlags) request() (*types.SearchRequest, error) {
	values := url.Values{
		"query": {f.query},
		"sort":  {f.sort},
		"page":  {strconv.Itoa(f.page)},
		"size":  {strconv.Itoa(f.size)},
		"str":   f.str,
		"rng":   f.rng,
		"bool":  f.boolean,
	}
	sr := types.NewSearchRequest()
	if err := types.QueryFromValues(values, sr); err != nil {
		return nil, fmt.Errorf("invalid filters: %w", err)
	}
	sr.Sanitize()
	return sr, nil
}

func newSearchCmd(opts *options) *cobra.Command {
	filters := &filterFlags{}
	var asJson bool
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter and sort the catalog",
		Long: `Search prints the records matching every filter in the requested order.

Example:
  comparectl search --str provider:Robi --rng price:100-300 --sort price_desc`,
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
			page := index.Project(c, sr.Filters, sr.GetSort()).Paged(sr.Page, sr.PageSize)
			if asJson {
				return writeJson(cmd, page)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "ID")
			for _, field := range c.Schema {
				fmt.Fprintf(w, "\t%s", field.Name)
			}
			fmt.Fprintln(w)
			for _, r := range page.Results {
				fmt.Fprint(w, r.Id)
				for _, field := range c.Schema {
					fmt.Fprintf(w, "\t%s", formatValue(r.Get(field.Name)))
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%d of %d records\n", page.FilteredCount, page.TotalCount)
			return w.Flush()
		},
	}
	filters.register(cmd)
	cmd.Flags().BoolVar(&asJson, "json", false, "print json")
	return cmd
}
