package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/matst80/compare-finder/pkg/types"
	"github.com/spf13/cobra"
)

func formatValue(v types.FacetValue) string {
	switch typed := v.(type) {
	case types.Text:
		return string(typed)
	case types.Key:
		return string(typed)
	case types.Keys:
		return strings.Join(typed, ", ")
	case types.Bool:
		if typed {
			return "yes"
		}
		return "no"
	case types.Number:
		return strconv.FormatFloat(float64(typed), 'f', -1, 64)
	case types.Missing:
	}
	return "-"
}

func newCompareCmd(opts *options) *cobra.Command {
	var maxSize int
	cmd := &cobra.Command{
		Use:   "compare <id>...",
		Short: "Toggle records into a comparison and print it side by side",
		Long: `Compare toggles each id into the selection in order, the same way the
compare button of a listing does, then prints the selected records with
one column per record.

Example:
  comparectl compare 12 40`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			s := compare.NewSelection(maxSize)
			for _, arg := range args {
				id := types.RecordId(arg)
				if _, ok := c.Get(id); !ok {
					return fmt.Errorf("record %q not found in %s", arg, c.Category)
				}
				if !s.Toggle(id) {
					fmt.Fprintf(cmd.ErrOrStderr(), "selection full, skipped %s\n", arg)
				}
			}
			records := s.Records(c)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "field")
			for _, r := range records {
				fmt.Fprintf(w, "\t%s", r.Id)
			}
			fmt.Fprintln(w)
			for _, field := range c.Schema {
				fmt.Fprint(w, field.Name)
				for _, r := range records {
					fmt.Fprintf(w, "\t%s", formatValue(r.Get(field.Name)))
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&maxSize, "max", compare.DefaultMaxSize, "maximum number of compared records")
	return cmd
}
