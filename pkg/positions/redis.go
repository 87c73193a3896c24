package positions

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

// RedisStore keeps records as JSON strings in Redis, one key per project.
// Keys never expire.
type RedisStore struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, db int, logger *log.Logger) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ping := func() error { return client.Ping(ctx).Err() }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, logger), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, logger *log.Logger) *RedisStore {
	return &RedisStore{client: client, logger: orDefault(logger)}
}

func (s *RedisStore) Load(ctx context.Context, project string) (*Record, error) {
	data, err := s.client.Get(ctx, StorageKey(project)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return decodeLoaded(ctx, BackendRedis, project, nil, false, s.logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get positions: %w", err)
	}
	return decodeLoaded(ctx, BackendRedis, project, data, true, s.logger), nil
}

func (s *RedisStore) Save(ctx context.Context, project string, r *Record) error {
	data, err := encodeForSave(project, r)
	if err == nil {
		err = s.client.Set(ctx, StorageKey(project), data, 0).Err()
	}
	observability.Store().OnSave(ctx, BackendRedis, len(data), err)
	if err != nil {
		return fmt.Errorf("redis set positions: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
