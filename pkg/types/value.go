package types

// FacetValue is one of Text, Key, Keys, Bool, Number or Missing. Code that
// inspects a value switches over the concrete types.
type FacetValue interface {
	Kind() FacetKind
	isFacetValue()
}

type Text string
type Key string
type Keys []string
type Bool bool
type Number float64

// Missing is the value of an attribute a record does not carry. Its Kind is 0.
type Missing struct{}

func (Text) Kind() FacetKind    { return FacetTextType }
func (Key) Kind() FacetKind     { return FacetKeyType }
func (Keys) Kind() FacetKind    { return FacetKeysType }
func (Bool) Kind() FacetKind    { return FacetBoolType }
func (Number) Kind() FacetKind  { return FacetNumberType }
func (Missing) Kind() FacetKind { return 0 }

func (Text) isFacetValue()    {}
func (Key) isFacetValue()     {}
func (Keys) isFacetValue()    {}
func (Bool) isFacetValue()    {}
func (Number) isFacetValue()  {}
func (Missing) isFacetValue() {}

func IsMissing(v FacetValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Missing)
	return ok
}

// NumberOf returns the numeric value and whether one was present.
func NumberOf(v FacetValue) (float64, bool) {
	if n, ok := v.(Number); ok {
		return float64(n), true
	}
	return 0, false
}
