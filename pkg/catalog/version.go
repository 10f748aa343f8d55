package catalog

import (
	"github.com/cespare/xxhash/v2"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/matst80/compare-finder/pkg/types"
)

type versionedContent struct {
	Category string           `json:"category"`
	Schema   types.Schema     `json:"schema"`
	Records  []map[string]any `json:"records"`
}

// ContentVersion hashes the schema and raw records of a category. Map keys are
// encoded sorted, so every process loading the same data gets the same version.
func ContentVersion(category string, schema types.Schema, raw []map[string]any) (uint64, error) {
	data, err := jsoncompat.Marshal(versionedContent{Category: category, Schema: schema, Records: raw})
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
