package compare

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/compare-finder/pkg/types"
)

// StoredSelection is what a Store keeps per session and category. Version is
// the catalog version the ids were picked from.
type StoredSelection struct {
	Version uint64           `json:"version"`
	Ids     []types.RecordId `json:"ids"`
}

type Store interface {
	Get(ctx context.Context, sessionId, category string) (*StoredSelection, error)
	Save(ctx context.Context, sessionId, category string, s *StoredSelection) error
	Delete(ctx context.Context, sessionId, category string) error
}

// Load returns the session's selection for the catalog. A selection made
// against another catalog version is discarded.
func Load(ctx context.Context, store Store, sessionId string, c *types.Catalog, maxSize int) (*Selection, error) {
	stored, err := store.Get(ctx, sessionId, c.Category)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Version != c.Version {
		return NewSelection(maxSize), nil
	}
	return NewSelection(maxSize, stored.Ids...), nil
}

func Save(ctx context.Context, store Store, sessionId string, c *types.Catalog, s *Selection) error {
	if s.Len() == 0 {
		return store.Delete(ctx, sessionId, c.Category)
	}
	return store.Save(ctx, sessionId, c.Category, &StoredSelection{Version: c.Version, Ids: s.Ids()})
}

func storeKey(sessionId, category string) string {
	return "compare:" + category + ":" + sessionId
}

type memoryEntry struct {
	expires time.Time
	data    StoredSelection
}

// MemoryStore keeps selections in process, entries expire after ttl.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, sessionId, category string) (*StoredSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := storeKey(sessionId, category)
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && time.Now().After(e.expires) {
		delete(m.entries, key)
		return nil, nil
	}
	data := e.data
	data.Ids = append([]types.RecordId(nil), e.data.Ids...)
	return &data, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionId, category string, s *StoredSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := *s
	data.Ids = append([]types.RecordId(nil), s.Ids...)
	m.entries[storeKey(sessionId, category)] = memoryEntry{expires: time.Now().Add(m.ttl), data: data}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionId, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, storeKey(sessionId, category))
	return nil
}
