// Package quick implements ad-hoc vendor comparisons that never touch
// the database: callers upload or post vendor figures, results live in
// an in-memory session store with a TTL.
package quick

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session expired or not found")

// Session holds one quick comparison's inputs and, once computed, its
// result.
type Session struct {
	ID        string
	Vendors   []VendorInput
	CreatedAt time.Time
	ExpiresAt time.Time
	Result    *CompareResult
}

// Store is a mutex-guarded in-memory session map. Expired sessions are
// swept on every access rather than by a background goroutine.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	// now is swappable in tests.
	now func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores a new session and returns it with a fresh id and expiry.
func (s *Store) Put(vendors []VendorInput, result *CompareResult) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		Vendors:   vendors,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Result:    result,
	}
	s.sessions[session.ID] = session
	return session
}

// Get returns the session for id, or ErrSessionNotFound when it never
// existed or has expired.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for id, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, id)
		}
	}
}
