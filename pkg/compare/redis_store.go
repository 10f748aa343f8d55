package compare

import (
	"context"
	"errors"
	"time"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares selections between service replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), ttl)
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, sessionId, category string) (*StoredSelection, error) {
	data, err := r.client.Get(ctx, storeKey(sessionId, category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := &StoredSelection{}
	if err = jsoncompat.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionId, category string, s *StoredSelection) error {
	data, err := jsoncompat.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, storeKey(sessionId, category), data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionId, category string) error {
	return r.client.Del(ctx, storeKey(sessionId, category)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
