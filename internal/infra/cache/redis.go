package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"erp-portal/internal/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedSession is the stored form. Session hides its tokens from JSON, and
// the cache key already binds the entry to the token.
type cachedSession struct {
	Session   *session.Session `json:"session"`
	Access    string           `json:"access"`
	Refresh   string           `json:"refresh,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// RedisCache is a SessionCache shared between portal instances
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// OpenRedis connects to url and checks the connection
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf(errRedisURLFmt, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf(errRedisPingFmt, err)
	}
	return client, nil
}

// NewRedisCache wraps an open client
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, logger: logger}
}

// Get reads and decodes a session. Redis errors are logged and reported as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (*session.Session, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("session cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var entry cachedSession
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Session == nil {
		r.logger.Warn("session cache entry undecodable", zap.Error(err))
		return nil, false
	}
	sess := *entry.Session
	sess.AccessToken = entry.Access
	sess.RefreshToken = entry.Refresh
	sess.ExpiresAt = entry.ExpiresAt
	return &sess, true
}

// Set encodes and stores a session with ttl
func (r *RedisCache) Set(ctx context.Context, key string, sess *session.Session, ttl time.Duration) {
	if ttl <= 0 || sess == nil {
		return
	}
	raw, err := json.Marshal(cachedSession{
		Session:   sess,
		Access:    sess.AccessToken,
		Refresh:   sess.RefreshToken,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		r.logger.Warn("session cache encode failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.logger.Warn("session cache set failed", zap.Error(err))
	}
}

// Purge deletes every session entry written by the portal
func (r *RedisCache) Purge(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", redisScanCount).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("session cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("session cache purge failed", zap.Error(err))
	}
}
