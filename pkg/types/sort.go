package types

import "strings"

type SortDirection uint8

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d SortDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *SortDirection) UnmarshalText(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "desc", "descending":
		*d = Descending
	default:
		*d = Ascending
	}
	return nil
}

// Sort with an empty Field keeps catalog order.
type Sort struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

const DescSuffix = "_desc"
const DefaultSort = "popular"

// ParseSort reads the sort query parameter: "price" sorts ascending,
// "price_desc" descending, "popular" or "" keeps catalog order.
func ParseSort(value string) Sort {
	value = strings.TrimSpace(value)
	if value == "" || value == DefaultSort {
		return Sort{}
	}
	if field, ok := strings.CutSuffix(value, DescSuffix); ok && field != "" {
		return Sort{Field: field, Direction: Descending}
	}
	return Sort{Field: value, Direction: Ascending}
}

func (s Sort) String() string {
	if s.Field == "" {
		return DefaultSort
	}
	if s.Direction == Descending {
		return s.Field + DescSuffix
	}
	return s.Field
}
