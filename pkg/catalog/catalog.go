// Package catalog turns raw product records into typed catalogs and keeps the
// current catalog of every category.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matst80/compare-finder/pkg/types"
)

var (
	ErrMissingId       = errors.New("record without id")
	ErrInvalidId       = errors.New("record id must be a string or an integer")
	ErrDuplicateId     = errors.New("duplicate record id")
	ErrUnknownCategory = errors.New("unknown category")
)

// Load validates the shape of raw and converts every schema attribute into a
// facet value. Values of the wrong type load as Missing.
func Load(category string, schema types.Schema, raw []map[string]any, version uint64) (*types.Catalog, error) {
	records := make([]*types.Record, 0, len(raw))
	seen := make(map[types.RecordId]struct{}, len(raw))
	for i, item := range raw {
		id, err := recordId(item["id"])
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", category, i, err)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%s record %d (%s): %w", category, i, id, ErrDuplicateId)
		}
		seen[id] = struct{}{}
		records = append(records, NewRecord(id, schema, item))
	}
	return types.NewCatalog(category, schema, records, version), nil
}

// NewRecord builds a record from one raw attribute map without validating the id.
func NewRecord(id types.RecordId, schema types.Schema, item map[string]any) *types.Record {
	values := make(map[string]types.FacetValue, len(schema))
	for i := range schema {
		field := &schema[i]
		v := ToFacetValue(field.Kind, item[field.SourceAttribute()])
		if !types.IsMissing(v) {
			values[field.Name] = v
		}
	}
	return &types.Record{
		Id:         id,
		Values:     values,
		Attributes: item,
	}
}

func recordId(data any) (types.RecordId, error) {
	switch typed := data.(type) {
	case nil:
		return "", ErrMissingId
	case string:
		id := strings.TrimSpace(typed)
		if id == "" {
			return "", ErrMissingId
		}
		return types.RecordId(id), nil
	case float64:
		if typed != math.Trunc(typed) || math.Abs(typed) >= 1<<63 {
			return "", ErrInvalidId
		}
		return types.RecordId(strconv.FormatInt(int64(typed), 10)), nil
	case int:
		return types.RecordId(strconv.Itoa(typed)), nil
	case int64:
		return types.RecordId(strconv.FormatInt(typed, 10)), nil
	case uint:
		return types.RecordId(strconv.FormatUint(uint64(typed), 10)), nil
	case json.Number:
		if _, err := typed.Int64(); err != nil {
			return "", ErrInvalidId
		}
		return types.RecordId(typed.String()), nil
	}
	return "", ErrInvalidId
}

// ToFacetValue converts one raw attribute. Keys accept arrays and
// ';'-separated strings, numbers and bools accept their string forms.
func ToFacetValue(kind types.FacetKind, data any) types.FacetValue {
	if data == nil {
		return types.Missing{}
	}
	switch kind {
	case types.FacetTextType:
		if s, ok := data.(string); ok {
			return types.Text(s)
		}
	case types.FacetKeyType:
		if s, ok := keyString(data); ok {
			return types.Key(s)
		}
	case types.FacetKeysType:
		if keys := toKeys(data); len(keys) > 0 {
			return keys
		}
	case types.FacetBoolType:
		switch typed := data.(type) {
		case bool:
			return types.Bool(typed)
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(typed)); err == nil {
				return types.Bool(b)
			}
		}
	case types.FacetNumberType:
		if n, ok := toNumber(data); ok {
			return types.Number(n)
		}
	}
	return types.Missing{}
}

func keyString(data any) (string, bool) {
	switch typed := data.(type) {
	case string:
		s := strings.TrimSpace(typed)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	}
	return "", false
}

func toKeys(data any) types.Keys {
	ret := types.Keys{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			ret = append(ret, v)
		}
	}
	switch typed := data.(type) {
	case []string:
		for _, v := range typed {
			add(v)
		}
	case []any:
		for _, v := range typed {
			if s, ok := keyString(v); ok {
				add(s)
			}
		}
	case string:
		for _, part := range strings.Split(typed, ";") {
			add(part)
		}
	}
	return ret
}

func toNumber(data any) (float64, bool) {
	var n float64
	switch typed := data.(type) {
	case float64:
		n = typed
	case float32:
		n = float64(typed)
	case int:
		n = float64(typed)
	case int64:
		n = float64(typed)
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
