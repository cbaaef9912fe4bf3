// Package redis owns the connection to the lock backend. Redis is optional
// here: without it the finalize lock degrades to process-local, which is
// fine for a single instance but not for replicas.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"biopay/internal/platform/config"
)

// healthTimeout bounds the /healthz ping so a dead Redis marks the service
// degraded instead of hanging the health check.
const healthTimeout = 2 * time.Second

// Client wraps go-redis with the health semantics the server's /healthz
// endpoint needs.
type Client struct {
	*redis.Client
}

// New connects using cfg. An empty URL means Redis is not configured and
// yields a nil client, which callers treat as "run without it".
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health pings with its own deadline, independent of the caller's context.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health: %w", err)
	}
	return nil
}
