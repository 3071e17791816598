package recommend

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Session remembers the selection made for each day of one user's trip.
// A day is recomputed only when the request fingerprint changes.
type Session struct {
	mu   sync.Mutex
	days map[int]*Selection
}

func NewSession() *Session {
	return &Session{days: make(map[int]*Selection)}
}

// Selection returns the stored selection for day when it was produced by
// fingerprint. Otherwise compute runs and its result replaces the day.
func (s *Session) Selection(day int, fingerprint string, compute func() (*Selection, error)) (*Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel, ok := s.days[day]; ok && sel.Fingerprint == fingerprint {
		return sel, true, nil
	}
	sel, err := compute()
	if err != nil {
		return nil, false, err
	}
	sel.Fingerprint = fingerprint
	s.days[day] = sel
	return sel, false, nil
}

// stored returns whatever is kept for day, regardless of fingerprint.
func (s *Session) stored(day int) (*Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.days[day]
	return sel, ok
}

// SessionStore keeps one Session per key and drops it after ttl without use.
type SessionStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{cache: cache.New(ttl, cleanupInterval)}
}

// Get returns the session for key, creating it on first use. Each call
// extends the session's lifetime.
func (st *SessionStore) Get(key string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if v, ok := st.cache.Get(key); ok {
		s := v.(*Session)
		st.cache.SetDefault(key, s)
		return s
	}
	s := NewSession()
	st.cache.SetDefault(key, s)
	return s
}

func (st *SessionStore) Delete(key string) {
	st.cache.Delete(key)
}

func (st *SessionStore) Len() int {
	return st.cache.ItemCount()
}
