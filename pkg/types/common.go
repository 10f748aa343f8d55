package types

import (
	"fmt"
	"strings"
)

type FacetKind uint8

const (
	FacetTextType FacetKind = iota + 1
	FacetKeyType
	FacetKeysType
	FacetBoolType
	FacetNumberType
)

var facetKindNames = map[FacetKind]string{
	FacetTextType:   "text",
	FacetKeyType:    "key",
	FacetKeysType:   "keys",
	FacetBoolType:   "bool",
	FacetNumberType: "number",
}

func (k FacetKind) String() string {
	if name, ok := facetKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FacetKind(%d)", uint8(k))
}

func (k FacetKind) MarshalText() ([]byte, error) {
	name, ok := facetKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown facet kind %d", uint8(k))
	}
	return []byte(name), nil
}

// UnmarshalText accepts the kind names plus the aliases used by the listing
// pages (enum, multi-enum, boolean, numeric).
func (k *FacetKind) UnmarshalText(data []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "text", "string":
		*k = FacetTextType
	case "key", "enum":
		*k = FacetKeyType
	case "keys", "multi-enum", "multienum", "list":
		*k = FacetKeysType
	case "bool", "boolean":
		*k = FacetBoolType
	case "number", "numeric", "decimal":
		*k = FacetNumberType
	default:
		return fmt.Errorf("unknown facet kind %q", string(data))
	}
	return nil
}

// Sortable reports whether values of this kind have a total order.
func (k FacetKind) Sortable() bool {
	return k == FacetTextType || k == FacetNumberType
}

type BaseField struct {
	Name        string    `json:"name" yaml:"name"`
	Attribute   string    `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        FacetKind `json:"kind" yaml:"kind"`
	Searchable  bool      `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	HideFacet   bool      `json:"hide,omitempty" yaml:"hide,omitempty"`
}

// SourceAttribute is the key the field is read from in a raw record.
func (b *BaseField) SourceAttribute() string {
	if b.Attribute != "" {
		return b.Attribute
	}
	return b.Name
}

type Schema []BaseField

func (s Schema) Field(name string) (*BaseField, bool) {
	for i := range s {
		if s[i].Name == name {
			return &s[i], true
		}
	}
	return nil, false
}

func (s Schema) Kind(name string) (FacetKind, bool) {
	f, ok := s.Field(name)
	if !ok {
		return 0, false
	}
	return f.Kind, true
}

// SearchFields returns the fields free text search looks at. When no field is
// flagged searchable every text, key and keys field is used.
func (s Schema) SearchFields() []string {
	ret := make([]string, 0, len(s))
	for _, f := range s {
		if f.Searchable {
			ret = append(ret, f.Name)
		}
	}
	if len(ret) > 0 {
		return ret
	}
	for _, f := range s {
		switch f.Kind {
		case FacetTextType, FacetKeyType, FacetKeysType:
			ret = append(ret, f.Name)
		}
	}
	return ret
}

// FacetNames returns the fields that get an option list, in schema order.
func (s Schema) FacetNames() []string {
	ret := make([]string, 0, len(s))
	for _, f := range s {
		if f.HideFacet {
			continue
		}
		if f.Kind == FacetKeyType || f.Kind == FacetKeysType {
			ret = append(ret, f.Name)
		}
	}
	return ret
}

// FilterNames returns every visible field a filter can target.
func (s Schema) FilterNames() []string {
	ret := make([]string, 0, len(s))
	for _, f := range s {
		if f.HideFacet || f.Kind == FacetTextType {
			continue
		}
		ret = append(ret, f.Name)
	}
	return ret
}

func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if f.Name == "" {
			return fmt.Errorf("field without name")
		}
		if _, ok := facetKindNames[f.Kind]; !ok {
			return fmt.Errorf("field %s: unknown kind %d", f.Name, f.Kind)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("field %s declared twice", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

type Category struct {
	Name   string `json:"name" yaml:"name"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Schema Schema `json:"fields" yaml:"fields"`
}
