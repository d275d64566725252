package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the collection as a plain string value under one key.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	return &RedisBackend{
		client: client,
		key:    key,
	}
}

func (b *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to get %s: %w", b.key, err)
	}
	return data, nil
}

func (b *RedisBackend) Save(ctx context.Context, data []byte) error {
	err := b.client.Set(ctx, b.key, data, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", b.key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
