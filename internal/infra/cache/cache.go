package cache

import (
	"context"
	"time"

	"erp-portal/internal/session"
)

// SessionCache stores resolved sessions keyed by an opaque string. Misses and
// backend failures look the same to callers: the session is resolved again.
type SessionCache interface {
	Get(ctx context.Context, key string) (*session.Session, bool)
	Set(ctx context.Context, key string, sess *session.Session, ttl time.Duration)
	Purge(ctx context.Context)
}

const (
	keyPrefix       = "portal:session:"
	defaultSweep    = time.Minute
	redisOpTimeout  = 200 * time.Millisecond
	redisScanCount  = 100
	errRedisURLFmt  = "failed to parse redis url: %w"
	errRedisPingFmt = "failed to ping redis: %w"
)

// BuildKey joins a catalog content digest and a token digest into a cache key
func BuildKey(catalogDigest, tokenDigest string) string {
	return keyPrefix + catalogDigest + ":" + tokenDigest
}
