package index

import (
	"slices"
	"strings"

	"github.com/matst80/compare-finder/pkg/types"
)

// Matcher decides whether one record satisfies a single constraint.
type Matcher interface {
	Match(r *types.Record) bool
}

type queryMatcher struct {
	term   string
	fields []string
}

func (m queryMatcher) Match(r *types.Record) bool {
	for _, name := range m.fields {
		switch v := r.Get(name).(type) {
		case types.Text:
			if strings.Contains(strings.ToLower(string(v)), m.term) {
				return true
			}
		case types.Key:
			if strings.Contains(strings.ToLower(string(v)), m.term) {
				return true
			}
		case types.Keys:
			for _, key := range v {
				if strings.Contains(strings.ToLower(key), m.term) {
					return true
				}
			}
		case types.Bool, types.Number, types.Missing:
		}
	}
	return false
}

type keyMatcher struct {
	field    string
	selected map[string]struct{}
}

func (m keyMatcher) has(value string) bool {
	_, ok := m.selected[value]
	return ok
}

func (m keyMatcher) Match(r *types.Record) bool {
	switch v := r.Get(m.field).(type) {
	case types.Key:
		return m.has(string(v))
	case types.Keys:
		return slices.ContainsFunc(v, m.has)
	case types.Text, types.Bool, types.Number, types.Missing:
	}
	return false
}

type boolMatcher struct {
	field string
	value bool
}

func (m boolMatcher) Match(r *types.Record) bool {
	switch v := r.Get(m.field).(type) {
	case types.Bool:
		return bool(v) == m.value
	case types.Text, types.Key, types.Keys, types.Number, types.Missing:
	}
	return false
}

type rangeMatcher struct {
	types.RangeFilter
}

func (m rangeMatcher) Match(r *types.Record) bool {
	switch v := r.Get(m.Field).(type) {
	case types.Number:
		return m.Contains(float64(v))
	case types.Text, types.Key, types.Keys, types.Bool, types.Missing:
	}
	return false
}

// Compile turns the active filters into matchers, in evaluation order: free
// text, key selections, bool toggles, ranges. Filters on fields the schema
// does not declare, or declares with another kind, are dropped. Text fields
// are only reached through the free text query.
func Compile(schema types.Schema, f *types.Filters) []Matcher {
	if f == nil {
		return nil
	}
	matchers := make([]Matcher, 0, 1+len(f.StringFilter)+len(f.BoolFilter)+len(f.RangeFilter))

	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		matchers = append(matchers, queryMatcher{term: term, fields: schema.SearchFields()})
	}

	for _, sf := range f.StringFilter {
		if !sf.IsActive() {
			continue
		}
		kind, ok := schema.Kind(sf.Field)
		if !ok || (kind != types.FacetKeyType && kind != types.FacetKeysType) {
			continue
		}
		selected := make(map[string]struct{}, len(sf.Value))
		for _, v := range sf.Value {
			selected[v] = struct{}{}
		}
		matchers = append(matchers, keyMatcher{field: sf.Field, selected: selected})
	}

	for _, bf := range f.BoolFilter {
		if kind, ok := schema.Kind(bf.Field); !ok || kind != types.FacetBoolType {
			continue
		}
		matchers = append(matchers, boolMatcher{field: bf.Field, value: bf.Value})
	}

	for _, rf := range f.RangeFilter {
		if kind, ok := schema.Kind(rf.Field); !ok || kind != types.FacetNumberType {
			continue
		}
		matchers = append(matchers, rangeMatcher{rf})
	}
	return matchers
}

func MatchAll(matchers []Matcher, r *types.Record) bool {
	for _, m := range matchers {
		if !m.Match(r) {
			return false
		}
	}
	return true
}
