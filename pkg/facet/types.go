package facet

// FacetIndex maps each key or keys facet to its sorted distinct values.
type FacetIndex map[string][]string

type Facets map[string]FieldResult

type FieldResult interface {
	HasValues() bool
}

type KeyFieldResult struct {
	Values map[string]int `json:"values"`
}

func (k *KeyFieldResult) HasValues() bool {
	return len(k.Values) > 0
}

type NumberFieldResult struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

func (n *NumberFieldResult) HasValues() bool {
	return n.Count > 0
}

type BoolFieldResult struct {
	True  int `json:"true"`
	False int `json:"false"`
}

func (b *BoolFieldResult) HasValues() bool {
	return b.True+b.False > 0
}
