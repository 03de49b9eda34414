package session

import (
	"sync"
	"sync/atomic"
)

// Store holds the current session snapshot for one client. Readers call Load
// and always see the latest snapshot; writers swap the whole value.
type Store struct {
	current atomic.Pointer[Session]
	version atomic.Uint64

	mu   sync.Mutex
	subs map[uint64]chan struct{}
	next uint64
}

// NewStore creates an empty (logged out) store
func NewStore() *Store {
	return &Store{subs: make(map[uint64]chan struct{})}
}

// Load returns the current session, nil when logged out
func (s *Store) Load() *Session {
	return s.current.Load()
}

// Version increases on every Replace or Clear
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Replace installs sess as the current session (login or token refresh)
func (s *Store) Replace(sess *Session) {
	s.current.Store(sess)
	s.version.Add(1)
	s.notify()
}

// Clear drops the current session (logout or expiry)
func (s *Store) Clear() {
	s.Replace(nil)
}

// Subscribe returns a channel that receives a value after every change and a
// function to cancel the subscription. Notifications coalesce: a slow reader
// sees at least one signal after the latest change.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
