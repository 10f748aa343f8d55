package facet

import (
	"math"

	"github.com/matst80/compare-finder/pkg/index"
	"github.com/matst80/compare-finder/pkg/types"
)

// Counts computes the result of each named facet over the records matching
// every active filter except the facet's own, so that options of an active
// multi-select stay selectable. Unknown names and text facets are skipped.
func Counts(c *types.Catalog, f *types.Filters, facetNames []string) Facets {
	result := Facets{}
	if c == nil {
		return result
	}
	for _, name := range facetNames {
		field, ok := c.Schema.Field(name)
		if !ok {
			continue
		}
		var res FieldResult
		switch field.Kind {
		case types.FacetKeyType, types.FacetKeysType:
			res = keyCounts(c, f.WithOut(name), name)
		case types.FacetNumberType:
			res = numberBounds(c, f.WithOut(name), name)
		case types.FacetBoolType:
			res = boolCounts(c, f.WithOut(name), name)
		default:
			continue
		}
		result[name] = res
	}
	return result
}

func keyCounts(c *types.Catalog, f *types.Filters, name string) *KeyFieldResult {
	field := EmptyKeyValueField(name)
	for _, r := range index.Filter(c, f) {
		field.AddValueLink(r.Get(name))
	}
	return &KeyFieldResult{Values: field.Keys}
}

func numberBounds(c *types.Catalog, f *types.Filters, name string) *NumberFieldResult {
	res := &NumberFieldResult{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, r := range index.Filter(c, f) {
		if n, ok := types.NumberOf(r.Get(name)); ok {
			res.Min = min(res.Min, n)
			res.Max = max(res.Max, n)
			res.Count++
		}
	}
	if res.Count == 0 {
		res.Min, res.Max = 0, 0
	}
	return res
}

func boolCounts(c *types.Catalog, f *types.Filters, name string) *BoolFieldResult {
	res := &BoolFieldResult{}
	for _, r := range index.Filter(c, f) {
		if b, ok := r.Get(name).(types.Bool); ok {
			if b {
				res.True++
			} else {
				res.False++
			}
		}
	}
	return res
}
