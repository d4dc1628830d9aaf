package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/five82/skyline/internal/flight"
)

// Redis is a FlightCache shared between server replicas.
type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
}

var _ FlightCache = (*Redis)(nil)

// NewRedis connects lazily to addr.
func NewRedis(addr string, defaultTTL time.Duration) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}), defaultTTL)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, defaultTTL time.Duration) *Redis {
	return &Redis{client: client, defaultTTL: defaultTTL}
}

// Ping checks connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (c *Redis) Get(ctx context.Context, key string) (flight.Envelope, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return flight.Envelope{}, false, nil
		}
		return flight.Envelope{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var env flight.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return flight.Envelope{}, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return env, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, env flight.Envelope, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
