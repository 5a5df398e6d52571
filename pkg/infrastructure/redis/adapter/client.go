package adapter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ClientOptions mirrors the redis section of the service configuration.
type ClientOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client and pings the server once so that a bad
// address fails at startup rather than on the first request.
func NewRedisClient(ctx context.Context, opts ClientOptions) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}
