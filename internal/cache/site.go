package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"web3builder/internal/domain/website"
)

const siteKeyPrefix = "site:"

// Sites is the process-wide site cache. A nil *SiteCache is valid and caches
// nothing.
var Sites *SiteCache

type SiteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSiteCache(client *redis.Client, ttl time.Duration) *SiteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SiteCache{client: client, ttl: ttl}
}

func SiteKey(subdomain string) string {
	return siteKeyPrefix + subdomain
}

// Get returns the cached page for a subdomain. Errors count as a miss.
func (sc *SiteCache) Get(ctx context.Context, subdomain string) ([]byte, bool) {
	if sc == nil {
		return nil, false
	}
	val, err := sc.client.Get(ctx, SiteKey(subdomain)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("site cache get error", "subdomain", subdomain, "error", err)
		return nil, false
	}
	return val, true
}

func (sc *SiteCache) Set(ctx context.Context, subdomain string, html []byte) {
	if sc == nil {
		return
	}
	if err := sc.client.Set(ctx, SiteKey(subdomain), html, sc.ttl).Err(); err != nil {
		slog.Warn("site cache set error", "subdomain", subdomain, "error", err)
	}
}

// Invalidate drops the cached pages of the given subdomains. Empty names are
// skipped.
func (sc *SiteCache) Invalidate(ctx context.Context, subdomains ...string) {
	if sc == nil {
		return
	}
	keys := make([]string, 0, len(subdomains))
	for _, s := range subdomains {
		if s != "" {
			keys = append(keys, SiteKey(s))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := sc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("site cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("site cache invalidated", "keys", keys)
}

// InvalidateOwner drops the cached pages of every website owned by userID.
// Rendered pages depend on the owner's plan, so call it when that changes.
func (sc *SiteCache) InvalidateOwner(ctx context.Context, db *gorm.DB, userID string) {
	if sc == nil {
		return
	}
	var subdomains []string
	if err := db.WithContext(ctx).
		Model(&website.Website{}).
		Where("user_id = ?", userID).
		Pluck("subdomain", &subdomains).Error; err != nil {
		slog.Warn("site cache owner lookup error", "user_id", userID, "error", err)
		return
	}
	sc.Invalidate(ctx, subdomains...)
}
