package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/matst80/compare-finder/pkg/types"
	"gopkg.in/yaml.v3"
)

type categoriesFile struct {
	Categories []types.Category `yaml:"categories"`
}

// ReadCategories parses a categories.yaml document:
//
//	categories:
//	  - name: mobile-plans
//	    fields:
//	      - name: provider
//	        attribute: brand
//	        kind: key
func ReadCategories(r io.Reader) ([]types.Category, error) {
	var doc categoriesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []types.Category{}, nil
		}
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	for _, c := range doc.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category without name")
		}
		if err := c.Schema.Validate(); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
	}
	return doc.Categories, nil
}

func LoadCategories(path string) ([]types.Category, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCategories(file)
}
