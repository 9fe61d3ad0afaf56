package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jobboard:session"

// Dial parses redisURL and verifies connectivity
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Redis stores one session's values under a per-session key prefix.
// Every Set pushes the expiry out by ttl, so the data lives as long as the
// session keeps writing.
type Redis struct {
	client    redis.Cmdable
	sessionID string
	ttl       time.Duration
}

// NewRedis scopes client to sessionID
func NewRedis(client redis.Cmdable, sessionID string, ttl time.Duration) *Redis {
	return &Redis{client: client, sessionID: sessionID, ttl: ttl}
}

func (r *Redis) key(k string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, r.sessionID, k)
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
