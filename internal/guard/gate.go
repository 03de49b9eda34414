package guard

import (
	"context"
	"sync"

	"erp-portal/internal/session"
)

// Gate binds a guard to a session store. It starts in Checking and settles on
// Allowed or Denied the first time it is asked. The decision is recomputed
// whenever the store's session changes, so a token refresh or logout is seen
// by the next read.
type Gate struct {
	guard *Guard
	store *session.Store

	mu        sync.Mutex
	evaluated bool
	version   uint64
	decision  Decision
}

// NewGate creates a gate in the Checking state
func NewGate(g *Guard, store *session.Store) *Gate {
	return &Gate{
		guard:    g,
		store:    store,
		decision: Decision{State: Checking},
	}
}

// Current returns the last computed decision without evaluating
func (g *Gate) Current() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// Decision returns the decision for the store's current session, evaluating
// only if the session changed since the last call
func (g *Gate) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	// read the version before the session so a concurrent replace is picked
	// up on the next call
	version := g.store.Version()
	if g.evaluated && version == g.version {
		return g.decision
	}
	g.decision = g.guard.Evaluate(g.store.Load())
	g.version = version
	g.evaluated = true
	return g.decision
}

// Run evaluates the gate once, then again on every store change, calling
// onChange whenever the decision differs from the previous one. It returns
// when ctx is done.
func (g *Gate) Run(ctx context.Context, onChange func(Decision)) error {
	changes, cancel := g.store.Subscribe()
	defer cancel()

	last := g.Decision()
	if onChange != nil {
		onChange(last)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			d := g.Decision()
			if d == last {
				continue
			}
			last = d
			if onChange != nil {
				onChange(d)
			}
		}
	}
}
