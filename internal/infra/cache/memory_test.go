package cache

import (
	"context"
	"testing"
	"time"

	"erp-portal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	sess := &session.Session{AccessToken: "a", Roles: []session.Role{"Accountant"}}

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", sess, time.Minute)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestMemoryCacheIgnoresInvalidSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, "zero", &session.Session{}, 0)
	c.Set(ctx, "nil", nil, time.Minute)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", &session.Session{}, time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Len())
	c.Sweep()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCachePurge(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	c.Set(ctx, "a", &session.Session{}, time.Minute)
	c.Set(ctx, "b", &session.Session{}, time.Minute)

	c.Purge(ctx)
	assert.Equal(t, 0, c.Len())
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "portal:session:c0ffee:abc", BuildKey("c0ffee", "abc"))
	assert.NotEqual(t, BuildKey("c0ffee", "abc"), BuildKey("beef", "abc"))
}

func TestRunSweeperStops(t *testing.T) {
	c := NewMemoryCache()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
