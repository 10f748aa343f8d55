package facet

import (
	"slices"
	"strings"

	"github.com/matst80/compare-finder/pkg/types"
)

// KeyField collects the distinct values of one key or keys facet and how many
// records carry each.
type KeyField struct {
	Name string
	Keys map[string]int
}

func EmptyKeyValueField(name string) *KeyField {
	return &KeyField{
		Name: name,
		Keys: map[string]int{},
	}
}

// AddValueLink counts the record's value, or each distinct element of its
// values. Other kinds and missing values contribute nothing.
func (f *KeyField) AddValueLink(value types.FacetValue) bool {
	switch typed := value.(type) {
	case types.Key:
		f.add(string(typed))
		return true
	case types.Keys:
		seen := make(map[string]struct{}, len(typed))
		for _, v := range typed {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			f.add(v)
		}
		return len(typed) > 0
	case types.Text, types.Bool, types.Number, types.Missing:
	}
	return false
}

func (f *KeyField) add(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	f.Keys[value]++
}

// GetValues returns the distinct values sorted lexicographically.
func (f *KeyField) GetValues() []string {
	ret := make([]string, 0, len(f.Keys))
	for value := range f.Keys {
		ret = append(ret, value)
	}
	slices.Sort(ret)
	return ret
}
