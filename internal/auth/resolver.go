package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"erp-portal/internal/infra/cache"
	"erp-portal/internal/rbac"
	"erp-portal/internal/session"
)

// ErrNoToken is returned when a request carries no access token
var ErrNoToken = errors.New(msgMissingToken)

// CatalogProvider returns the active grant catalog and its content digest
type CatalogProvider interface {
	Active() (rbac.Catalog, string)
}

// Resolver turns an access token into a session. Resolved sessions are cached
// under the catalog content digest and a digest of the token, so a new token
// or a different catalog always resolves fresh grants, even when the cache is
// shared with instances running another catalog.
type Resolver struct {
	verifier *TokenVerifier
	catalogs CatalogProvider
	cache    cache.SessionCache
	maxTTL   time.Duration
	now      func() time.Time
}

// NewResolver builds a resolver. sessions may be nil to disable caching.
func NewResolver(verifier *TokenVerifier, catalogs CatalogProvider, sessions cache.SessionCache, maxTTL time.Duration) *Resolver {
	if maxTTL <= 0 {
		maxTTL = defaultCacheTTL
	}
	return &Resolver{
		verifier: verifier,
		catalogs: catalogs,
		cache:    sessions,
		maxTTL:   maxTTL,
		now:      time.Now,
	}
}

// Resolve verifies access and builds the caller's session. refresh is carried
// on the session as-is.
func (r *Resolver) Resolve(ctx context.Context, access, refresh string) (*session.Session, error) {
	if access == "" {
		return nil, ErrNoToken
	}

	catalog, catalogDigest := r.catalogs.Active()
	key := cache.BuildKey(catalogDigest, TokenDigest(access))

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, key); ok && !cached.Expired(r.now()) {
			sess := *cached
			sess.RefreshToken = refresh
			return &sess, nil
		}
	}

	claims, err := r.verifier.Verify(access)
	if err != nil {
		return nil, err
	}

	roles := claims.SessionRoles()
	sess := &session.Session{
		UserID:       claims.UserID,
		AccessToken:  access,
		RefreshToken: refresh,
		Roles:        roles,
		Grants:       catalog.GrantsFor(roles),
		ExpiresAt:    claims.ExpiresAt.Time,
	}

	if r.cache != nil {
		ttl := sess.ExpiresAt.Sub(r.now())
		if ttl > r.maxTTL {
			ttl = r.maxTTL
		}
		r.cache.Set(ctx, key, sess, ttl)
	}

	return sess, nil
}

// TokenDigest is the hex SHA-256 of a token, used so raw tokens never become
// cache keys
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
