package data

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// SessionStore keeps per-user values in memory under random IDs. Every Get
// extends the entry's lifetime by the TTL.
type SessionStore[T any] struct {
	mu    sync.RWMutex
	store map[string]*sessionEntry[T]
	ttl   time.Duration
	now   func() time.Time
	log   *logrus.Logger
	cron  *cron.Cron
}

// NewSessionStore creates an empty store. A ttl <= 0 uses DefaultSessionTTL.
func NewSessionStore[T any](ttl time.Duration, log *logrus.Logger) *SessionStore[T] {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionStore[T]{
		store: make(map[string]*sessionEntry[T]),
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

// Put stores v under a new ID and returns the ID.
func (s *SessionStore[T]) Put(v T) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[id] = &sessionEntry[T]{value: v, expiresAt: s.now().Add(s.ttl)}
	return id
}

// Get returns the value stored under id, if present and not expired.
func (s *SessionStore[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	entry, exists := s.store[id]
	if !exists {
		return zero, false
	}
	now := s.now()
	if now.After(entry.expiresAt) {
		delete(s.store, id)
		return zero, false
	}
	entry.expiresAt = now.Add(s.ttl)
	return entry.value, true
}

// Delete removes id. It reports whether the session existed.
func (s *SessionStore[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.store[id]
	delete(s.store, id)
	return exists
}

// Len is the number of stored sessions, expired ones included.
func (s *SessionStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Purge removes expired sessions and returns how many were removed.
func (s *SessionStore[T]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, id)
			removed++
		}
	}
	return removed
}

// StartPurge schedules Purge with a cron spec such as "@every 1m".
func (s *SessionStore[T]) StartPurge(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := s.Purge(); n > 0 {
			s.log.WithField("removed", n).Info("[Sessions] Purged expired sessions")
		}
	}); err != nil {
		return err
	}
	c.Start()

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()
	return nil
}

// Stop halts the purge job, if running.
func (s *SessionStore[T]) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
