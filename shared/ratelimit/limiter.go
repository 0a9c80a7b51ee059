package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures a fixed window limiter.
type Config struct {
	Window time.Duration
	Max    int
	Prefix string
}

// Limiter counts hits per key in fixed Redis windows.
type Limiter struct {
	client *redis.Client
	config Config
}

// NewLimiter creates a limiter backed by client.
func NewLimiter(client *redis.Client, cfg Config) (*Limiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Window <= 0 || cfg.Max <= 0 {
		return nil, errors.New("rate limit window and max must be positive")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit:"
	}

	return &Limiter{client: client, config: cfg}, nil
}

// Allow records a hit for key and reports whether it is within the limit.
// The counter and its window expiry are written in one MULTI/EXEC.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.config.Prefix + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		// NX keeps the window of the first hit
		pipe.ExpireNX(ctx, redisKey, l.config.Window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return incr.Val() <= int64(l.config.Max), nil
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
