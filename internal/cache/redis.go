package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values in Redis. A nil *Cache, or one built without a
// client, is a no-op so callers never branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Connect builds a client for addr and pings it.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// GetJSON reads key into dest. It reports false when the key is absent.
// Numbers decoded into interfaces come back as json.Number.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// Generation returns the current generation counter of namespace ns. Keys
// built with it go stale as soon as Bump is called.
func (c *Cache) Generation(ctx context.Context, ns string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	n, err := c.client.Get(ctx, genKey(ns)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Bump invalidates every key built from the previous generation of ns.
func (c *Cache) Bump(ctx context.Context, ns string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, genKey(ns)).Err()
}

func genKey(ns string) string {
	return "gen:" + ns
}
