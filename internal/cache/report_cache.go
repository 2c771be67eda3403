// Package cache holds short-lived copies of per-owner reports.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rms:report"

// ReportCache stores rendered reports per owner. A miss is (false, nil).
type ReportCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, key string, dest any) (bool, error)
	Set(ctx context.Context, ownerID uuid.UUID, key string, value any) error

	// InvalidateOwner drops every cached report of the owner. Writes that
	// change aggregates call it so reports never outlive the data.
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a ReportCache backed by Redis.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &redisReportCache{client: client, ttl: ttl}
}

// NewRedisClient builds a client from config values. Addresses may carry a
// redis:// scheme.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		if password != "" {
			opts.Password = password
		}
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func ownerPattern(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, ownerID)
}

func reportKey(ownerID uuid.UUID, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, ownerID, key)
}

func (c *redisReportCache) Get(ctx context.Context, ownerID uuid.UUID, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, reportKey(ownerID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cached report %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report %s: %w", key, err)
	}
	return true, nil
}

func (c *redisReportCache) Set(ctx context.Context, ownerID uuid.UUID, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", key, err)
	}
	if err := c.client.Set(ctx, reportKey(ownerID, key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report %s: %w", key, err)
	}
	return nil
}

func (c *redisReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, ownerPattern(ownerID), 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached reports: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached reports: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

type noopReportCache struct{}

// NewNoop returns a ReportCache that never hits. Used when Redis is not
// configured.
func NewNoop() ReportCache {
	return noopReportCache{}
}

func (noopReportCache) Get(context.Context, uuid.UUID, string, any) (bool, error) {
	return false, nil
}

func (noopReportCache) Set(context.Context, uuid.UUID, string, any) error {
	return nil
}

func (noopReportCache) InvalidateOwner(context.Context, uuid.UUID) error {
	return nil
}
