// Package index evaluates filters over a catalog and projects the ordered,
// paged result list a listing page renders.
package index

import (
	"github.com/matst80/compare-finder/pkg/sorting"
	"github.com/matst80/compare-finder/pkg/types"
)

// Filter returns the records matching every active filter, in catalog order.
// Empty filters return a copy of all records.
func Filter(c *types.Catalog, f *types.Filters) []*types.Record {
	if c == nil {
		return []*types.Record{}
	}
	return FilterRecords(c.Schema, c.Records, f)
}

func FilterRecords(schema types.Schema, records []*types.Record, f *types.Filters) []*types.Record {
	matchers := Compile(schema, f)
	result := make([]*types.Record, 0, len(records))
	for _, r := range records {
		if MatchAll(matchers, r) {
			result = append(result, r)
		}
	}
	return result
}

type Result struct {
	Results       []*types.Record `json:"items"`
	TotalCount    int             `json:"totalCount"`
	FilteredCount int             `json:"filteredCount"`
}

// Project filters and orders the catalog: Results is Sort(Filter(c, f), s).
func Project(c *types.Catalog, f *types.Filters, s types.Sort) Result {
	if c == nil {
		return Result{Results: []*types.Record{}}
	}
	results := sorting.Sort(c.Schema, Filter(c, f), s)
	return Result{
		Results:       results,
		TotalCount:    c.Len(),
		FilteredCount: len(results),
	}
}

type Page struct {
	Result
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Paged slices a projection after ordering, FilteredCount keeps the full count.
func (r Result) Paged(page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = len(r.Results)
	}
	if page < 0 {
		page = 0
	}
	start := min(page*pageSize, len(r.Results))
	end := min(start+pageSize, len(r.Results))
	return Page{
		Result: Result{
			Results:       r.Results[start:end],
			TotalCount:    r.TotalCount,
			FilteredCount: r.FilteredCount,
		},
		Page:     page,
		PageSize: pageSize,
	}
}
