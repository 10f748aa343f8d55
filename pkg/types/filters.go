package types

import (
	"math"
	"strings"
)

// StringFilter selects records whose key value, or any of whose keys values,
// is one of Value. No values means the filter is inactive.
type StringFilter struct {
	Field string   `json:"field"`
	Value []string `json:"value"`
}

func (s StringFilter) IsActive() bool {
	return len(s.Value) > 0
}

type BoolFilter struct {
	Field string `json:"field"`
	Value bool   `json:"value"`
}

// RangeFilter is inclusive on both ends. A nil Max is an open upper bound.
type RangeFilter struct {
	Field string   `json:"field"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
}

func (r RangeFilter) IsOpen() bool {
	return r.Max == nil
}

func (r RangeFilter) Contains(value float64) bool {
	if math.IsNaN(value) || value < r.Min {
		return false
	}
	return r.Max == nil || value <= *r.Max
}

func ClosedRange(field string, min, max float64) RangeFilter {
	return RangeFilter{Field: field, Min: min, Max: &max}
}

func OpenRange(field string, min float64) RangeFilter {
	return RangeFilter{Field: field, Min: min}
}

// Filters is the set of constraints of one browsing session. The zero value
// matches every record.
type Filters struct {
	Query        string         `json:"query" schema:"query"`
	StringFilter []StringFilter `json:"string" schema:"-"`
	BoolFilter   []BoolFilter   `json:"bool" schema:"-"`
	RangeFilter  []RangeFilter  `json:"range" schema:"-"`
}

// IsEmpty reports whether no constraint is active.
func (f *Filters) IsEmpty() bool {
	if f == nil {
		return true
	}
	if strings.TrimSpace(f.Query) != "" || len(f.BoolFilter) > 0 || len(f.RangeFilter) > 0 {
		return false
	}
	for _, s := range f.StringFilter {
		if s.IsActive() {
			return false
		}
	}
	return true
}

// WithOut returns a copy without any filter on the named field.
func (f *Filters) WithOut(field string) *Filters {
	if f == nil {
		return &Filters{}
	}
	result := Filters{
		Query:        f.Query,
		StringFilter: make([]StringFilter, 0, len(f.StringFilter)),
		BoolFilter:   make([]BoolFilter, 0, len(f.BoolFilter)),
		RangeFilter:  make([]RangeFilter, 0, len(f.RangeFilter)),
	}
	for _, filter := range f.StringFilter {
		if filter.Field != field {
			result.StringFilter = append(result.StringFilter, filter)
		}
	}
	for _, filter := range f.BoolFilter {
		if filter.Field != field {
			result.BoolFilter = append(result.BoolFilter, filter)
		}
	}
	for _, filter := range f.RangeFilter {
		if filter.Field != field {
			result.RangeFilter = append(result.RangeFilter, filter)
		}
	}
	return &result
}

func (f *Filters) HasField(field string) bool {
	if f == nil {
		return false
	}
	for _, v := range f.StringFilter {
		if v.Field == field && v.IsActive() {
			return true
		}
	}
	for _, v := range f.BoolFilter {
		if v.Field == field {
			return true
		}
	}
	for _, v := range f.RangeFilter {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Clear drops every constraint, the "clear filters" action of a listing page.
func (f *Filters) Clear() {
	f.Query = ""
	f.StringFilter = f.StringFilter[:0]
	f.BoolFilter = f.BoolFilter[:0]
	f.RangeFilter = f.RangeFilter[:0]
}
