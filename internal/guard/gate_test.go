package guard

import (
	"context"
	"testing"
	"time"

	"erp-portal/internal/rbac"
	"erp-portal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChecker struct {
	calls int
	inner rbac.Checker
}

func (c *countingChecker) Can(sess *session.Session, req rbac.Request) bool {
	c.calls++
	return c.inner.Can(sess, req)
}

func TestGateStartsChecking(t *testing.T) {
	store := session.NewStore()
	gate := NewGate(New(rbac.NewEvaluator(), viewRequest), store)

	assert.Equal(t, Checking, gate.Current().State)
}

func TestGateReevaluatesOnlyOnChange(t *testing.T) {
	store := session.NewStore()
	store.Replace(agentSession())
	checker := &countingChecker{inner: rbac.NewEvaluator()}
	gate := NewGate(New(checker, viewRequest), store)

	assert.Equal(t, Allowed, gate.Decision().State)
	assert.Equal(t, Allowed, gate.Decision().State)
	assert.Equal(t, 1, checker.calls)

	store.Clear()
	d := gate.Decision()
	assert.Equal(t, Denied, d.State)
	assert.Equal(t, UnauthorizedPath, d.Redirect)
	assert.Equal(t, 2, checker.calls)
	assert.Equal(t, d, gate.Current())
}

func TestGateRunFollowsStore(t *testing.T) {
	store := session.NewStore()
	gate := NewGate(New(rbac.NewEvaluator(), viewRequest), store)

	decisions := make(chan Decision, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- gate.Run(ctx, func(d Decision) { decisions <- d })
	}()

	next := func() Decision {
		select {
		case d := <-decisions:
			return d
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a decision")
			return Decision{}
		}
	}

	assert.Equal(t, Denied, next().State)

	store.Replace(agentSession())
	assert.Equal(t, Allowed, next().State)

	store.Clear()
	assert.Equal(t, Denied, next().State)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
