package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a server-defined role name held by a user
type Role string

// AccessRight is a server-defined capability descriptor. Name is the
// application.module.action key it grants.
type AccessRight struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RoleGrant lists the access rights a role grants. Grants are additive only.
type RoleGrant struct {
	Role         Role          `json:"role" yaml:"role"`
	AccessRights []AccessRight `json:"access_rights" yaml:"access_rights"`
}

// Session is the authenticated caller's state. It is immutable once built;
// login, refresh and logout replace it as a whole.
type Session struct {
	UserID       uuid.UUID   `json:"user_id"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
	Roles        []Role      `json:"roles"`
	Grants       []RoleGrant `json:"grants"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// Authenticated reports whether s carries an access token. A nil session is
// never authenticated.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// HasRole reports whether the session holds role
func (s *Session) HasRole(role Role) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Expired reports whether the session has a non-zero expiry in the past
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// GrantFor returns the grant for role, if the session carries one
func (s *Session) GrantFor(role Role) (RoleGrant, bool) {
	if s == nil {
		return RoleGrant{}, false
	}
	for _, g := range s.Grants {
		if g.Role == role {
			return g, true
		}
	}
	return RoleGrant{}, false
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored in ctx, or nil
func FromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}
