package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/compare-finder/pkg/types"
)

type compareFn func(a, b *types.Record) int

// Sort returns a stably ordered copy of records. Text fields compare
// case-insensitively, number fields numerically with a missing value counted
// as 0. Sorting on an unknown, key, keys or bool field keeps the input order.
func Sort(schema types.Schema, records []*types.Record, s types.Sort) []*types.Record {
	result := slices.Clone(records)
	if result == nil {
		result = []*types.Record{}
	}
	fn := comparator(schema, s)
	if fn == nil {
		return result
	}
	slices.SortStableFunc(result, fn)
	return result
}

func comparator(schema types.Schema, s types.Sort) compareFn {
	if s.Field == "" {
		return nil
	}
	kind, ok := schema.Kind(s.Field)
	if !ok || !kind.Sortable() {
		return nil
	}
	var fn compareFn
	if kind == types.FacetNumberType {
		fn = func(a, b *types.Record) int {
			return cmp.Compare(numberValue(a.Get(s.Field)), numberValue(b.Get(s.Field)))
		}
	} else {
		fn = func(a, b *types.Record) int {
			return strings.Compare(textValue(a.Get(s.Field)), textValue(b.Get(s.Field)))
		}
	}
	if s.Direction == types.Descending {
		return func(a, b *types.Record) int {
			return fn(b, a)
		}
	}
	return fn
}

func numberValue(v types.FacetValue) float64 {
	n, _ := types.NumberOf(v)
	return n
}

func textValue(v types.FacetValue) string {
	switch typed := v.(type) {
	case types.Text:
		return strings.ToLower(string(typed))
	case types.Key, types.Keys, types.Bool, types.Number, types.Missing:
	}
	return ""
}
