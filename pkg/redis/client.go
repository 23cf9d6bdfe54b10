package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// participationTTL bounds how stale a cached participation snapshot may be.
// The cache is an optimization only; aggregation stays correct without it.
const participationTTL = 60 * time.Second

// Client wraps the Redis connection used for read-side caching.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("[redis] connected")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("[redis] waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

func participationKey(riderID string) string { return "participation:" + riderID }

// GetParticipation returns a cached participation snapshot decoded into dst.
// The bool reports whether a cache entry was present.
func (c *Client) GetParticipation(ctx context.Context, riderID string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, participationKey(riderID)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetParticipation caches a participation snapshot with a short TTL.
func (c *Client) SetParticipation(ctx context.Context, riderID string, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, participationKey(riderID), raw, participationTTL).Err()
}

// InvalidateParticipation drops cached snapshots for the given riders.
// Called after attendance, role, or participant mutations.
func (c *Client) InvalidateParticipation(ctx context.Context, riderIDs ...string) error {
	if len(riderIDs) == 0 {
		return nil
	}
	keys := make([]string, len(riderIDs))
	for i, id := range riderIDs {
		keys[i] = participationKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
