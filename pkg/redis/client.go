package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/filmharbor/festival-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "festival"

// Client wraps the redis connection helpers needed by the rate limiter.
type Client struct {
	raw *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New bootstraps a Redis client and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// counterCmds is the slice of redis commands the fixed-window counter needs.
type counterCmds interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// IncrWithTTL increments and ensures the key has the supplied TTL on the first
// increment. The window is fixed: later increments never extend it. Used by
// the auth rate limiter.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	namespaced := fmt.Sprintf("%s:%s", keyNamespace, key)
	return incrWithTTL(ctx, c.raw, namespaced, ttl)
}

func incrWithTTL(ctx context.Context, cmds counterCmds, key string, ttl time.Duration) (int64, error) {
	count, err := cmds.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 && count == 1 {
		if expErr := cmds.Expire(ctx, key, ttl).Err(); expErr != nil {
			return count, expErr
		}
	}
	return count, nil
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.raw.Close()
}
