// Package cache provides the Redis-backed session store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"stokpanel/internal/domain/auth"
	"stokpanel/pkg/logger"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps the Redis connection.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() {
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			logger.Error(context.Background(), "redis close failed", "error", err)
		}
	}
}

// Ping checks connection health.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SessionFlags stores login sessions as durable flags. Entries carry
// no TTL; a session ends only when Delete removes it.
type SessionFlags struct {
	rdb *redis.Client
}

var _ auth.SessionStore = (*SessionFlags)(nil)

func NewSessionFlags(c *Client) *SessionFlags {
	return &SessionFlags{rdb: c.rdb}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *SessionFlags) Put(ctx context.Context, sessionID string) error {
	if err := s.rdb.Set(ctx, sessionKey(sessionID), "true", 0).Err(); err != nil {
		return fmt.Errorf("store session flag: %w", err)
	}
	return nil
}

func (s *SessionFlags) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session flag: %w", err)
	}
	return n > 0, nil
}

func (s *SessionFlags) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session flag: %w", err)
	}
	return nil
}
