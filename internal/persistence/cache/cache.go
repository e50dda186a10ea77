// Package cache provides an optional Redis read-through cache for computed
// team profiles, so the HTTP surface can serve hot leagues without a database
// round trip. A miss or a Redis error is never fatal; callers fall back to
// the repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis cache configuration
type Config struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Enabled  bool          `yaml:"enabled"`
}

// DefaultConfig returns cache defaults; disabled until configured.
func DefaultConfig() Config {
	return Config{
		Addr: "localhost:6379",
		TTL:  15 * time.Minute,
	}
}

// ProfileCache caches JSON-encoded profile documents keyed by league and
// team. A nil *ProfileCache is a valid no-op cache.
type ProfileCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// New creates a profile cache from config, or nil when caching is disabled.
func New(cfg Config) *ProfileCache {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &ProfileCache{
		client:    client,
		ttl:       cfg.TTL,
		keyPrefix: "dynastyscope:",
	}
}

// Get unmarshals the cached document for (league, team, kind) into dest.
// The second return is false on a miss or any cache error.
func (c *ProfileCache) Get(ctx context.Context, leagueID, teamID, kind string, dest interface{}) bool {
	if c == nil {
		return false
	}
	payload, err := c.client.Get(ctx, c.key(leagueID, teamID, kind)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

// Set stores a JSON-encoded document for (league, team, kind) with the
// configured TTL.
func (c *ProfileCache) Set(ctx context.Context, leagueID, teamID, kind string, value interface{}) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	return c.client.Set(ctx, c.key(leagueID, teamID, kind), payload, c.ttl).Err()
}

// InvalidateLeague drops every cached document for a league; called after a
// sync pass replaces the league's profiles.
func (c *ProfileCache) InvalidateLeague(ctx context.Context, leagueID string) error {
	if c == nil {
		return nil
	}
	pattern := c.keyPrefix + leagueID + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping checks connectivity; a nil cache always reports healthy.
func (c *ProfileCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *ProfileCache) Close() error {
	if c == nil {
		return nil
	}
	err := c.client.Close()
	if err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func (c *ProfileCache) key(leagueID, teamID, kind string) string {
	return c.keyPrefix + leagueID + ":" + teamID + ":" + kind
}
