// Package limiter implements short-lived, Redis-backed cooldowns. It guards
// operations that must not repeat within a window, such as resending a
// verification code.
package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCoolingDown is returned by Acquire while a previous acquisition is
// still within its window.
var ErrCoolingDown = errors.New("operation is cooling down")

// Cooldown gates an operation key for a fixed window.
type Cooldown interface {
	// Acquire reserves key for window. It returns ErrCoolingDown when the
	// key is already reserved, and the remaining wait in that case.
	Acquire(ctx context.Context, key string, window time.Duration) (time.Duration, error)
	// Release drops the reservation early.
	Release(ctx context.Context, key string) error
}

// RedisCooldown is a Cooldown backed by a Redis SETNX key with TTL.
type RedisCooldown struct {
	client *redis.Client
	prefix string
}

// New returns a RedisCooldown using the given client.
func New(client *redis.Client) *RedisCooldown {
	return &RedisCooldown{
		client: client,
		prefix: "cooldown:",
	}
}

// Acquire reserves key for window.
func (c *RedisCooldown) Acquire(ctx context.Context, key string, window time.Duration) (time.Duration, error) {
	fk := c.prefix + key

	acquired, err := c.client.SetNX(ctx, fk, "1", window).Result()
	if err != nil {
		return 0, err
	}
	if acquired {
		return 0, nil
	}

	remaining, err := c.client.TTL(ctx, fk).Result()
	if err != nil || remaining < 0 {
		remaining = window
	}

	return remaining, ErrCoolingDown
}

// Release drops the reservation for key.
func (c *RedisCooldown) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
