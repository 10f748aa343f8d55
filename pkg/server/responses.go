package server

import (
	"github.com/matst80/compare-finder/pkg/facet"
	"github.com/matst80/compare-finder/pkg/index"
	"github.com/matst80/compare-finder/pkg/types"
)

type CategoryResponse struct {
	types.Category
	Loaded  bool   `json:"loaded"`
	Records int    `json:"records"`
	Version uint64 `json:"version"`
}

type FacetsResponse struct {
	Options       facet.FacetIndex `json:"options"`
	Facets        facet.Facets     `json:"facets"`
	TotalCount    int              `json:"totalCount"`
	FilteredCount int              `json:"filteredCount"`
}

type SearchResponse struct {
	index.Page
	Sort     string `json:"sort"`
	Duration string `json:"duration"`
}

type CompareResponse struct {
	Fields  types.Schema     `json:"fields"`
	Ids     []types.RecordId `json:"ids"`
	Items   []*types.Record  `json:"items"`
	MaxSize int              `json:"maxSize"`
	Full    bool             `json:"full"`
}

type ToggleResponse struct {
	CompareResponse
	Id      types.RecordId `json:"id"`
	Changed bool           `json:"changed"`
	// NoOp is set when the id could not be added because the selection is full.
	NoOp bool `json:"noop"`
}

type ReloadResponse struct {
	Category string `json:"category"`
	Version  uint64 `json:"version"`
	Records  int    `json:"records"`
}
