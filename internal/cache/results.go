package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

const (
	DefaultTTL    = 240 * time.Hour
	DefaultPrefix = "cv_judgment"
)

// ResultCache stores model judgments by prompt fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) (*evaluation.Judgment, bool, error)
	Set(ctx context.Context, key string, value *evaluation.Judgment) error
	Close() error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisResultCache builds a cache with the given addr/password/db.
func NewRedisResultCache(addr, password string, db int, ttl time.Duration, prefix string) (ResultCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisResultCache{client: client, ttl: ttl, prefix: prefix}, nil
}

// Ping checks that the server answers.
func Ping(ctx context.Context, c ResultCache) error {
	rc, ok := c.(*redisResultCache)
	if !ok || rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Ping(ctx).Err()
}

func (c *redisResultCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

func (c *redisResultCache) Get(ctx context.Context, key string) (*evaluation.Judgment, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out evaluation.Judgment
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, key string, value *evaluation.Judgment) error {
	if c == nil || c.client == nil || value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *redisResultCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
