// Package facet derives filter option lists and per-value counts from a
// catalog.
package facet

import (
	"github.com/matst80/compare-finder/pkg/types"
)

// BuildFacetIndex collects, for each named facet, the sorted distinct values
// found across records. Every requested name gets an entry, names no record
// carries a key value for get an empty list.
func BuildFacetIndex(records []*types.Record, facetNames []string) FacetIndex {
	fields := make(map[string]*KeyField, len(facetNames))
	for _, name := range facetNames {
		fields[name] = EmptyKeyValueField(name)
	}
	for _, r := range records {
		for name, field := range fields {
			field.AddValueLink(r.Get(name))
		}
	}
	result := make(FacetIndex, len(fields))
	for name, field := range fields {
		result[name] = field.GetValues()
	}
	return result
}

// CatalogFacetIndex builds the index for every key and keys facet of the schema.
func CatalogFacetIndex(c *types.Catalog) FacetIndex {
	if c == nil {
		return FacetIndex{}
	}
	return BuildFacetIndex(c.Records, c.Schema.FacetNames())
}
