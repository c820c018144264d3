package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

var _ domain.SnapshotRepository = (*RedisSnapshotRepository)(nil)

// RedisSnapshotRepository stores the snapshot under a single Redis key with
// no expiry. SET replaces the value atomically.
type RedisSnapshotRepository struct {
	client *redis.Client
	key    string
}

func NewRedisSnapshotRepository(client *redis.Client, key string) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		client: client,
		key:    key,
	}
}

func (r *RedisSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis read error: %w", err)
	}
	return val, nil
}

func (r *RedisSnapshotRepository) Save(ctx context.Context, payload []byte) error {
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisSnapshotRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}
