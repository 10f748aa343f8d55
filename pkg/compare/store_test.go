package compare

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/matst80/compare-finder/pkg/types"
	"github.com/redis/go-redis/v9"
)

func testCatalog(version uint64) *types.Catalog {
	return types.NewCatalog("plans", types.Schema{}, []*types.Record{
		{Id: "1"}, {Id: "2"}, {Id: "3"},
	}, version)
}

func TestLoadEmptySession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	s, err := Load(context.Background(), store, "abc", testCatalog(1), 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty selection, got %v", s.Ids())
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	c := testCatalog(1)
	s := NewSelection(2, "1", "3")
	if err := Save(ctx, store, "abc", c, s); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(ctx, store, "abc", c, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Ids(), []types.RecordId{"1", "3"}) {
		t.Errorf("Expected [1 3], got %v", loaded.Ids())
	}
	other, _ := Load(ctx, store, "other", c, 2)
	if other.Len() != 0 {
		t.Errorf("Expected sessions to be separate, got %v", other.Ids())
	}
}

func TestLoadDiscardsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	if err := Save(ctx, store, "abc", testCatalog(1), NewSelection(2, "1")); err != nil {
		t.Fatal(err)
	}
	s, err := Load(ctx, store, "abc", testCatalog(2), 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected selection from an old catalog to be dropped, got %v", s.Ids())
	}
}

func TestSaveEmptyDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	c := testCatalog(1)
	_ = Save(ctx, store, "abc", c, NewSelection(2, "1"))
	_ = Save(ctx, store, "abc", c, NewSelection(2))
	stored, err := store.Get(ctx, "abc", "plans")
	if err != nil {
		t.Fatal(err)
	}
	if stored != nil {
		t.Errorf("Expected entry to be deleted, got %v", stored)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Nanosecond)
	_ = store.Save(ctx, "abc", "plans", &StoredSelection{Version: 1, Ids: []types.RecordId{"1"}})
	time.Sleep(time.Millisecond)
	stored, _ := store.Get(ctx, "abc", "plans")
	if stored != nil {
		t.Errorf("Expected entry to expire, got %v", stored)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	store := NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0, time.Minute)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	c := testCatalog(7)
	session := "test-" + time.Now().Format("150405.000000")
	if err := Save(ctx, store, session, c, NewSelection(2, "2", "1")); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(ctx, store, session, c, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Ids(), []types.RecordId{"2", "1"}) {
		t.Errorf("Expected [2 1], got %v", loaded.Ids())
	}

	replica := NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}), time.Minute)
	defer replica.Close()
	shared, err := Load(ctx, replica, session, c, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(shared.Ids(), []types.RecordId{"2", "1"}) {
		t.Errorf("Expected second client to read [2 1], got %v", shared.Ids())
	}
	if err = store.Delete(ctx, session, c.Category); err != nil {
		t.Error(err)
	}
}
