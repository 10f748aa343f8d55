package types

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
)

type SearchRequest struct {
	*Filters
	Sort     string `json:"sort" schema:"sort,default:popular"`
	Page     int    `json:"page" schema:"page"`
	PageSize int    `json:"pageSize" schema:"size,default:40"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *SearchRequest) Sanitize() {
	s.Page = clamp(s.Page, 0, 1000)
	s.PageSize = clamp(s.PageSize, 1, 1000)
	if s.Sort == "" {
		s.Sort = DefaultSort
	}
	if s.Filters == nil {
		s.Filters = &Filters{}
	}
	s.Query = strings.TrimSpace(s.Query)
}

func (s *SearchRequest) GetSort() Sort {
	return ParseSort(s.Sort)
}

func GetQueryFromRequest(r *http.Request) (*SearchRequest, error) {
	sr := makeBaseSearchRequest()
	var err error
	if r.Method == http.MethodGet {
		err = QueryFromValues(r.URL.Query(), sr)
	} else {
		err = jsoncompat.NewDecoder(r.Body).Decode(sr)
	}
	sr.Sanitize()
	return sr, err
}

func GetFiltersFromRequest(r *http.Request) (*Filters, error) {
	f := makeBaseFilters()
	err := decoder.Decode(f, r.URL.Query())
	if err != nil {
		return f, err
	}
	decodeFiltersFromValues(r.URL.Query(), f)
	return f, nil
}

func QueryFromValues(query url.Values, result *SearchRequest) error {
	err := decoder.Decode(result, query)
	if err != nil {
		return err
	}
	decodeFiltersFromValues(query, result.Filters)
	return nil
}

func splitFieldValue(v string) (string, string, bool) {
	field, value, ok := strings.Cut(v, ":")
	if !ok {
		return "", "", false
	}
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if field == "" || value == "" {
		return "", "", false
	}
	return field, value, true
}

// decodeFiltersFromValues reads str=<field>:<a>||<b>, bool=<field>:<true|false>
// and rng=<field>:<min>-<max> (or <min>- for an open range). Malformed entries
// are skipped, a later entry for the same field replaces an earlier one.
func decodeFiltersFromValues(query url.Values, result *Filters) {
	for _, v := range query["str"] {
		field, value, ok := splitFieldValue(v)
		if !ok {
			continue
		}
		values := make([]string, 0, 1)
		for _, part := range strings.Split(value, "||") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
		result.StringFilter = upsert(result.StringFilter, StringFilter{Field: field, Value: values}, func(f StringFilter) string { return f.Field })
	}

	for _, v := range query["bool"] {
		field, value, ok := splitFieldValue(v)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			continue
		}
		result.BoolFilter = upsert(result.BoolFilter, BoolFilter{Field: field, Value: b}, func(f BoolFilter) string { return f.Field })
	}

	for _, v := range query["rng"] {
		field, value, ok := splitFieldValue(v)
		if !ok {
			continue
		}
		rng, ok := parseRange(field, value)
		if !ok {
			continue
		}
		result.RangeFilter = upsert(result.RangeFilter, rng, func(f RangeFilter) string { return f.Field })
	}
}

func parseRange(field, value string) (RangeFilter, bool) {
	// the separator is the first '-' after the first character so that
	// a negative lower bound still parses
	idx := strings.Index(value[1:], "-")
	if idx == -1 {
		return RangeFilter{}, false
	}
	idx++
	minValue, err := strconv.ParseFloat(strings.TrimSpace(value[:idx]), 64)
	if err != nil {
		return RangeFilter{}, false
	}
	maxPart := strings.TrimSpace(value[idx+1:])
	if maxPart == "" {
		return OpenRange(field, minValue), true
	}
	maxValue, err := strconv.ParseFloat(maxPart, 64)
	if err != nil {
		return RangeFilter{}, false
	}
	return ClosedRange(field, minValue, maxValue), true
}

func upsert[V any](list []V, item V, key func(V) string) []V {
	k := key(item)
	for i := range list {
		if key(list[i]) == k {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func makeBaseFilters() *Filters {
	return &Filters{
		StringFilter: []StringFilter{},
		BoolFilter:   []BoolFilter{},
		RangeFilter:  []RangeFilter{},
	}
}

func makeBaseSearchRequest() *SearchRequest {
	return &SearchRequest{
		Filters:  makeBaseFilters(),
		Sort:     DefaultSort,
		Page:     0,
		PageSize: 40,
	}
}

func NewSearchRequest() *SearchRequest {
	return makeBaseSearchRequest()
}
