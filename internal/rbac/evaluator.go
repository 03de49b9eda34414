package rbac

import (
	"fmt"
	"sort"

	"erp-portal/internal/session"
)

// Checker answers permission requests for a session
type Checker interface {
	Can(sess *session.Session, req Request) bool
}

// Evaluator resolves permission requests against the grants carried by a
// session. Matching is exact on the application.module.action key; there is
// no wildcard or hierarchical fallback. It holds no state of its own.
type Evaluator struct{}

// NewEvaluator returns an Evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Can reports whether sess may perform req. It fails closed: a nil session,
// an empty role set, an invalid request or a missing grant all yield false.
func (e *Evaluator) Can(sess *session.Session, req Request) bool {
	return e.Authorize(sess, req) == nil
}

// CanAll reports whether every request is granted. An empty list is denied.
func (e *Evaluator) CanAll(sess *session.Session, reqs ...Request) bool {
	if len(reqs) == 0 {
		return false
	}
	for _, req := range reqs {
		if !e.Can(sess, req) {
			return false
		}
	}
	return true
}

// Authorize is Can with the reason for a denial. Every returned error wraps
// ErrDenied.
func (e *Evaluator) Authorize(sess *session.Session, req Request) error {
	if sess == nil {
		return fmt.Errorf(errDeniedWrapFmt, ErrDenied, ErrNoSession)
	}
	if len(sess.Roles) == 0 {
		return fmt.Errorf(errDeniedWrapFmt, ErrDenied, ErrNoRoles)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf(errDeniedWrapFmt, ErrDenied, err)
	}

	key := req.Key()
	for _, role := range sess.Roles {
		grant, ok := sess.GrantFor(role)
		if !ok {
			continue
		}
		for _, right := range grant.AccessRights {
			if right.Name == key {
				return nil
			}
		}
	}
	return fmt.Errorf(errDeniedKeyFmt, ErrDenied, ErrNotGranted, key)
}

// GrantedKeys lists every access-right name granted to the roles the session
// holds, sorted and without duplicates
func (e *Evaluator) GrantedKeys(sess *session.Session) []string {
	if sess == nil {
		return []string{}
	}

	seen := make(map[string]bool)
	keys := []string{}
	for _, role := range sess.Roles {
		grant, ok := sess.GrantFor(role)
		if !ok {
			continue
		}
		for _, right := range grant.AccessRights {
			if right.Name == "" || seen[right.Name] {
				continue
			}
			seen[right.Name] = true
			keys = append(keys, right.Name)
		}
	}
	sort.Strings(keys)
	return keys
}
