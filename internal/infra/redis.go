package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ClaveDia is the cache key for an employee's day view. Invalidated on every
// accepted check-in so the derived state is never served stale.
func ClaveDia(empleadoID, fecha string) string {
	return fmt.Sprintf("chequeos:%s:%s", empleadoID, fecha)
}
