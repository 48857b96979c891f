// Package pending holds messages awaiting an explicit user decision after a
// negative triage verdict. Entries are consumed atomically: confirm and
// cancel race for the same entry and exactly one wins.
package pending

import (
	"sync"
	"time"
)

const (
	// DefaultTTL bounds how long an unanswered confirmation stays alive.
	DefaultTTL = 24 * time.Hour
	// DefaultMaxEntries bounds the number of outstanding confirmations.
	DefaultMaxEntries = 1000
)

// Store is the key-value abstraction over pending confirmations, keyed by
// message id. Take removes and returns the entry in one step; that removal
// is the commit point for the confirmation state machine.
type Store interface {
	// Put records the original text for a message awaiting confirmation.
	// At most one entry exists per message id; a second Put overwrites.
	Put(messageID, text string)

	// Take atomically removes and returns the entry for the message id.
	// The second return is false if no live entry exists.
	Take(messageID string) (string, bool)

	// Len returns the number of live entries.
	Len() int
}

type entry struct {
	text    string
	addedAt time.Time
}

// MemoryStore is the in-process Store implementation. Unlike a plain map it
// enforces a TTL and a maximum number of outstanding entries, evicting the
// oldest first, so an unattended bot cannot grow without bound.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
}

// NewMemoryStore creates a store with the given TTL and size bound.
// Non-positive arguments fall back to the defaults.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      time.Now,
	}
}

// Put implements the Store interface.
func (s *MemoryStore) Put(messageID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.evictExpiredLocked(now)

	if _, exists := s.entries[messageID]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[messageID] = entry{text: text, addedAt: now}
}

// Take implements the Store interface.
func (s *MemoryStore) Take(messageID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[messageID]
	if !ok {
		return "", false
	}
	delete(s.entries, messageID)

	if s.clock().Sub(e.addedAt) > s.ttl {
		// Expired entries behave as if already consumed.
		return "", false
	}
	return e.text, true
}

// Len implements the Store interface.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked(s.clock())
	return len(s.entries)
}

func (s *MemoryStore) evictExpiredLocked(now time.Time) {
	for id, e := range s.entries {
		if now.Sub(e.addedAt) > s.ttl {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.addedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.addedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
