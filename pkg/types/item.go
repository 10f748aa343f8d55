package types

import (
	"maps"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
)

type RecordId string

// Record is one comparable product. Values holds the schema facets, Attributes
// the raw record as loaded, used when the record is rendered.
type Record struct {
	Id         RecordId
	Values     map[string]FacetValue
	Attributes map[string]any
}

// Get never returns nil, absent facets read as Missing.
func (r *Record) Get(name string) FacetValue {
	if r == nil || r.Values == nil {
		return Missing{}
	}
	v, ok := r.Values[name]
	if !ok || v == nil {
		return Missing{}
	}
	return v
}

func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attributes)+1)
	maps.Copy(out, r.Attributes)
	out["id"] = r.Id
	return jsoncompat.Marshal(out)
}

// Catalog is the loaded, immutable record set of one category. Version
// identifies its content, equal data gives an equal version.
type Catalog struct {
	Category string
	Schema   Schema
	Records  []*Record
	Version  uint64
	byId     map[RecordId]*Record
}

func NewCatalog(category string, schema Schema, records []*Record, version uint64) *Catalog {
	byId := make(map[RecordId]*Record, len(records))
	for _, r := range records {
		byId[r.Id] = r
	}
	return &Catalog{
		Category: category,
		Schema:   schema,
		Records:  records,
		Version:  version,
		byId:     byId,
	}
}

func (c *Catalog) Get(id RecordId) (*Record, bool) {
	if c == nil {
		return nil, false
	}
	r, ok := c.byId[id]
	return r, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}
