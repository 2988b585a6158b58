package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisProductCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisProductCache(rdb redis.UniversalClient, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

func NewRedisClient(addr string, db, poolSize int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		PoolSize:     poolSize,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id uint64) (*domain.Product, bool, error) {
	b, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p domain.Product
	if err := json.Unmarshal(b, &p); err != nil {
		// a corrupt entry is treated as a miss and overwritten on the next fill
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err()
}

func (c *RedisProductCache) Delete(ctx context.Context, id uint64) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}
