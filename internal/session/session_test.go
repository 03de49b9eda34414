package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(roles ...Role) *Session {
	return &Session{
		UserID:      uuid.New(),
		AccessToken: "access",
		Roles:       roles,
	}
}

func TestNilSession(t *testing.T) {
	var s *Session

	assert.False(t, s.Authenticated())
	assert.False(t, s.HasRole("Purchasing-Agent"))
	assert.True(t, s.Expired(time.Now()))
	_, ok := s.GrantFor("Purchasing-Agent")
	assert.False(t, ok)
}

func TestSessionHelpers(t *testing.T) {
	s := newSession("Purchasing-Agent")
	s.Grants = []RoleGrant{{
		Role:         "Purchasing-Agent",
		AccessRights: []AccessRight{{ID: "1", Name: "purchase.purchase_requests.view"}},
	}}

	assert.True(t, s.Authenticated())
	assert.True(t, s.HasRole("Purchasing-Agent"))
	assert.False(t, s.HasRole("Accountant"))

	g, ok := s.GrantFor("Purchasing-Agent")
	require.True(t, ok)
	assert.Len(t, g.AccessRights, 1)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := newSession()

	assert.False(t, s.Expired(now), "zero expiry never expires")

	s.ExpiresAt = now.Add(time.Minute)
	assert.False(t, s.Expired(now))

	s.ExpiresAt = now
	assert.True(t, s.Expired(now))
}

func TestContextRoundTrip(t *testing.T) {
	s := newSession("Accountant")
	ctx := NewContext(context.Background(), s)

	assert.Same(t, s, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestStoreReplaceAndClear(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Load())
	assert.Equal(t, uint64(0), store.Version())

	first := newSession("Purchasing-Agent")
	store.Replace(first)
	assert.Same(t, first, store.Load())
	assert.Equal(t, uint64(1), store.Version())

	refreshed := newSession("Purchasing-Agent", "Accountant")
	store.Replace(refreshed)
	assert.Same(t, refreshed, store.Load())
	assert.Equal(t, uint64(2), store.Version())

	store.Clear()
	assert.Nil(t, store.Load())
	assert.Equal(t, uint64(3), store.Version())
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe()
	defer cancel()

	store.Replace(newSession())
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	// notifications coalesce instead of blocking writers
	store.Replace(newSession())
	store.Replace(newSession())
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a coalesced notification")
	}
	select {
	case <-ch:
		t.Fatal("expected no second pending notification")
	default:
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe()
	cancel()
	cancel()

	store.Replace(newSession())
	select {
	case <-ch:
		t.Fatal("cancelled subscription should not be notified")
	default:
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s := store.Load(); s != nil {
					_ = s.HasRole("Accountant")
				}
			}
		}()
	}
	for j := 0; j < 100; j++ {
		store.Replace(newSession("Accountant"))
	}
	wg.Wait()

	assert.Equal(t, uint64(100), store.Version())
}
