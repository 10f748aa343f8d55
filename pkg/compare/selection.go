// Package compare keeps the bounded set of records a visitor has picked for a
// side-by-side comparison.
package compare

import (
	"slices"

	"github.com/matst80/compare-finder/pkg/types"
)

const DefaultMaxSize = 2

// Toggle returns a new id list: id removed when present, appended when there
// is room, otherwise ids unchanged. changed is false only for the full case.
func Toggle(ids []types.RecordId, id types.RecordId, maxSize int) ([]types.RecordId, bool) {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	if idx := slices.Index(ids, id); idx != -1 {
		return slices.Delete(slices.Clone(ids), idx, idx+1), true
	}
	if len(ids) >= maxSize {
		return slices.Clone(ids), false
	}
	return append(slices.Clone(ids), id), true
}

// Selection is the ordered comparison set of one session.
type Selection struct {
	ids     []types.RecordId
	maxSize int
}

func NewSelection(maxSize int, ids ...types.RecordId) *Selection {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	s := &Selection{ids: make([]types.RecordId, 0, maxSize), maxSize: maxSize}
	for _, id := range ids {
		if len(s.ids) >= maxSize {
			break
		}
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle reports false when id could not be added because the set is full.
func (s *Selection) Toggle(id types.RecordId) bool {
	ids, changed := Toggle(s.ids, id, s.maxSize)
	s.ids = ids
	return changed
}

func (s *Selection) Remove(id types.RecordId) {
	if idx := slices.Index(s.ids, id); idx != -1 {
		s.ids = slices.Delete(s.ids, idx, idx+1)
	}
}

func (s *Selection) Clear() {
	s.ids = s.ids[:0]
}

func (s *Selection) Contains(id types.RecordId) bool {
	return slices.Contains(s.ids, id)
}

func (s *Selection) Ids() []types.RecordId {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IsFull() bool {
	return len(s.ids) >= s.maxSize
}

func (s *Selection) MaxSize() int {
	return s.maxSize
}

// Records resolves the selection against a catalog, skipping ids the catalog
// no longer has.
func (s *Selection) Records(c *types.Catalog) []*types.Record {
	ret := make([]*types.Record, 0, len(s.ids))
	for _, id := range s.ids {
		if r, ok := c.Get(id); ok {
			ret = append(ret, r)
		}
	}
	return ret
}
