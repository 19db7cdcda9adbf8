// Package cache keeps rendered portfolio HTML close to the edge so the
// public render path does not hit the database on every request.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	portfolioKeyPrefix  = "portfolio:html:"
	defaultPortfolioTTL = 5 * time.Minute
)

// PortfolioCache is a read-through cache for published portfolio HTML,
// keyed by subdomain. A nil Redis client disables it: every call
// becomes a no-op miss, so the server runs fine without Redis.
type PortfolioCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewPortfolioCache(client *redis.Client, logger zerolog.Logger) *PortfolioCache {
	return &PortfolioCache{client: client, ttl: defaultPortfolioTTL, logger: logger}
}

// GetHTML returns the cached HTML for a subdomain. The second return
// value reports whether the cache held an entry.
func (c *PortfolioCache) GetHTML(ctx context.Context, subdomain string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	html, err := c.client.Get(ctx, portfolioKeyPrefix+subdomain).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("subdomain", subdomain).Msg("portfolio cache read failed")
		}
		return "", false
	}
	return html, true
}

// SetHTML stores rendered HTML under the subdomain key. Failures are
// logged and swallowed: the cache never blocks a render.
func (c *PortfolioCache) SetHTML(ctx context.Context, subdomain, html string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, portfolioKeyPrefix+subdomain, html, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("subdomain", subdomain).Msg("portfolio cache write failed")
	}
}

// Invalidate drops the cached entry after a save or delete so stale
// HTML is never served past the next TTL boundary.
func (c *PortfolioCache) Invalidate(ctx context.Context, subdomain string) {
	if c == nil || c.client == nil || subdomain == "" {
		return
	}
	if err := c.client.Del(ctx, portfolioKeyPrefix+subdomain).Err(); err != nil {
		c.logger.Warn().Err(err).Str("subdomain", subdomain).Msg("portfolio cache invalidation failed")
	}
}
