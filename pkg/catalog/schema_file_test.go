package catalog

import (
	"strings"
	"testing"

	"github.com/matst80/compare-finder/pkg/types"
)

const categoriesYaml = `
categories:
  - name: mobile-plans
    title: Mobile plans
    fields:
      - name: name
        kind: text
        searchable: true
      - name: provider
        attribute: brand
        kind: enum
      - name: tags
        kind: multi-enum
      - name: has4G
        kind: boolean
      - name: price
        kind: numeric
`

func TestReadCategories(t *testing.T) {
	categories, err := ReadCategories(strings.NewReader(categoriesYaml))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(categories))
	}
	c := categories[0]
	if c.Name != "mobile-plans" || c.Title != "Mobile plans" || len(c.Schema) != 5 {
		t.Errorf("Unexpected category %+v", c)
	}
	want := []types.FacetKind{types.FacetTextType, types.FacetKeyType, types.FacetKeysType, types.FacetBoolType, types.FacetNumberType}
	for i, k := range want {
		if c.Schema[i].Kind != k {
			t.Errorf("Field %s: expected kind %s, got %s", c.Schema[i].Name, k, c.Schema[i].Kind)
		}
	}
	if c.Schema[1].SourceAttribute() != "brand" {
		t.Errorf("Expected provider to read brand")
	}
}

func TestReadCategoriesErrors(t *testing.T) {
	docs := []string{
		"categories:\n  - name: a\n    fields:\n      - name: x\n        kind: shape\n",
		"categories:\n  - fields: []\n",
		"categories:\n  - name: a\n    colour: red\n",
		"categories:\n  - name: a\n    fields:\n      - {name: x, kind: text}\n      - {name: x, kind: key}\n",
	}
	for _, doc := range docs {
		if _, err := ReadCategories(strings.NewReader(doc)); err == nil {
			t.Errorf("Expected error for %q", doc)
		}
	}
}
