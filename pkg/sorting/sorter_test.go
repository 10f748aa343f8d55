package sorting

import (
	"slices"
	"testing"

	"github.com/matst80/compare-finder/pkg/types"
)

var schema = types.Schema{
	{Name: "name", Kind: types.FacetTextType},
	{Name: "provider", Kind: types.FacetKeyType},
	{Name: "tags", Kind: types.FacetKeysType},
	{Name: "has4G", Kind: types.FacetBoolType},
	{Name: "price", Kind: types.FacetNumberType},
}

func record(id string, values map[string]types.FacetValue) *types.Record {
	return &types.Record{Id: types.RecordId(id), Values: values}
}

func ids(records []*types.Record) []types.RecordId {
	ret := make([]types.RecordId, len(records))
	for i, r := range records {
		ret[i] = r.Id
	}
	return ret
}

func priced(pairs ...any) []*types.Record {
	ret := make([]*types.Record, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		values := map[string]types.FacetValue{}
		if pairs[i+1] != nil {
			values["price"] = types.Number(pairs[i+1].(float64))
		}
		ret = append(ret, record(pairs[i].(string), values))
	}
	return ret
}

func TestSortByPrice(t *testing.T) {
	input := priced("1", 300.0, "3", 150.0)
	result := Sort(schema, input, types.Sort{Field: "price", Direction: types.Ascending})
	if !slices.Equal(ids(result), []types.RecordId{"3", "1"}) {
		t.Errorf("Expected [3 1], got %v", ids(result))
	}
	if input[0].Id != "1" {
		t.Errorf("Expected input not to be mutated")
	}
}

func TestSortIsStable(t *testing.T) {
	input := priced("a", 100.0, "b", 50.0, "c", 100.0, "d", 50.0, "e", 100.0)
	asc := Sort(schema, input, types.Sort{Field: "price"})
	if !slices.Equal(ids(asc), []types.RecordId{"b", "d", "a", "c", "e"}) {
		t.Errorf("Unexpected ascending order %v", ids(asc))
	}
	desc := Sort(schema, input, types.Sort{Field: "price", Direction: types.Descending})
	if !slices.Equal(ids(desc), []types.RecordId{"a", "c", "e", "b", "d"}) {
		t.Errorf("Expected ties to keep input order when descending, got %v", ids(desc))
	}
}

func TestSortDirectionSymmetry(t *testing.T) {
	input := priced("a", 5.0, "b", 1.0, "c", 9.0, "d", 3.0)
	asc := ids(Sort(schema, input, types.Sort{Field: "price"}))
	desc := ids(Sort(schema, input, types.Sort{Field: "price", Direction: types.Descending}))
	slices.Reverse(asc)
	if !slices.Equal(asc, desc) {
		t.Errorf("Expected reversed ascending %v to equal descending %v", asc, desc)
	}
}

func TestSortMissingNumberIsZero(t *testing.T) {
	input := priced("a", 10.0, "b", nil, "c", -5.0, "d", 0.0)
	result := Sort(schema, input, types.Sort{Field: "price"})
	if !slices.Equal(ids(result), []types.RecordId{"c", "b", "d", "a"}) {
		t.Errorf("Expected missing price to sort as zero, got %v", ids(result))
	}
}

func TestSortTextIgnoresCase(t *testing.T) {
	input := []*types.Record{
		record("1", map[string]types.FacetValue{"name": types.Text("banglalink")}),
		record("2", map[string]types.FacetValue{"name": types.Text("Airtel")}),
		record("3", map[string]types.FacetValue{"name": types.Text("robi")}),
		record("4", map[string]types.FacetValue{"name": types.Text("AIRTEL")}),
	}
	result := Sort(schema, input, types.Sort{Field: "name"})
	if !slices.Equal(ids(result), []types.RecordId{"2", "4", "1", "3"}) {
		t.Errorf("Unexpected order %v", ids(result))
	}
}

func TestSortIgnoresUnsortableFields(t *testing.T) {
	input := []*types.Record{
		record("1", map[string]types.FacetValue{"provider": types.Key("Robi"), "has4G": types.Bool(true), "tags": types.Keys{"b"}}),
		record("2", map[string]types.FacetValue{"provider": types.Key("Airtel"), "has4G": types.Bool(false), "tags": types.Keys{"a"}}),
	}
	for _, field := range []string{"provider", "has4G", "tags", "unknown", ""} {
		result := Sort(schema, input, types.Sort{Field: field, Direction: types.Descending})
		if !slices.Equal(ids(result), []types.RecordId{"1", "2"}) {
			t.Errorf("Expected sort on %q to keep input order, got %v", field, ids(result))
		}
	}
}

func TestSortEmpty(t *testing.T) {
	result := Sort(schema, nil, types.Sort{Field: "price"})
	if result == nil || len(result) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", result)
	}
}

func BenchmarkSortPrice(b *testing.B) {
	input := make([]*types.Record, 0, 500)
	for i := range 500 {
		input = append(input, record("x", map[string]types.FacetValue{"price": types.Number(float64((i * 7919) % 1000))}))
	}
	b.ResetTimer()
	for range b.N {
		Sort(schema, input, types.Sort{Field: "price", Direction: types.Descending})
	}
}
