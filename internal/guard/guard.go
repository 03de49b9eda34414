package guard

import (
	"erp-portal/internal/rbac"
	"erp-portal/internal/session"
)

// UnauthorizedPath is where denied callers are sent
const UnauthorizedPath = "/unauthorized"

// Guard protects a route with a fixed list of permission requests. All of them
// must be granted.
type Guard struct {
	Requests []rbac.Request
	Redirect string

	checker rbac.Checker
}

// New builds a guard that redirects denied callers to UnauthorizedPath
func New(checker rbac.Checker, reqs ...rbac.Request) *Guard {
	return &Guard{
		Requests: reqs,
		Redirect: UnauthorizedPath,
		checker:  checker,
	}
}

// Evaluate decides whether sess passes the guard. It never returns Checking.
// A guard without requests denies everything.
func (g *Guard) Evaluate(sess *session.Session) Decision {
	if len(g.Requests) == 0 {
		return g.deny("")
	}
	for _, req := range g.Requests {
		if !g.checker.Can(sess, req) {
			return g.deny(req.Key())
		}
	}
	return Decision{State: Allowed}
}

func (g *Guard) deny(missing string) Decision {
	redirect := g.Redirect
	if redirect == "" {
		redirect = UnauthorizedPath
	}
	return Decision{State: Denied, Redirect: redirect, Missing: missing}
}
