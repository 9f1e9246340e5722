package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
)

// RedisStore implements mirasdk.KVStore using Redis.
// Keys are namespaced as "{prefix}:{namespace}:{key}".
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "mira"
	TTL    time.Duration // expiry for records, 0 = no expiry
}

// NewRedisStore creates a KVStore backed by Redis. Works with
// *redis.Client, *redis.ClusterClient and *redis.Ring.
func NewRedisStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisStore {
	cfg := RedisStoreConfig{Prefix: "mira"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "mira"
	}
	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (r *RedisStore) kvKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

func (r *RedisStore) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := r.client.Get(ctx, r.kvKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", mirasdk.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set uses a single SET, so the record is replaced atomically.
func (r *RedisStore) Set(ctx context.Context, namespace, key, value string) error {
	return r.client.Set(ctx, r.kvKey(namespace, key), value, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	return r.client.Del(ctx, r.kvKey(namespace, key)).Err()
}

func (r *RedisStore) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	prefix := fmt.Sprintf("%s:%s:", r.prefix, namespace)
	keys, err := r.client.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if rest := strings.TrimPrefix(k, prefix); rest != "" && rest != k {
			result = append(result, rest)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Compile-time interface check.
var _ mirasdk.KVStore = (*RedisStore)(nil)
