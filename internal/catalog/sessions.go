// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package catalog

import (
	"sync"
	"time"

	"github.com/tomtom215/billboard/internal/metrics"
)

// Session is one display's navigation state.
type Session struct {
	ClientID     string    `json:"clientId"`
	CursorIndex  int       `json:"cursorIndex"`
	LastAccessed time.Time `json:"lastAccessed"`
}

type sessionEntry struct {
	session Session
	prev    *sessionEntry
	next    *sessionEntry
}

// SessionStore is a bounded, TTL-swept store of client sessions ordered by
// last access. When full, the least recently accessed session is evicted.
type SessionStore struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*sessionEntry

	// head.next is the most recently accessed, tail.prev the least.
	head *sessionEntry
	tail *sessionEntry

	evicted int64
}

// NewSessionStore creates a store holding at most capacity sessions that
// expire after ttl without access.
func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	s := &SessionStore{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*sessionEntry),
		head:     &sessionEntry{},
		tail:     &sessionEntry{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get returns a copy of the session without touching it.
func (s *SessionStore) Get(clientID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[clientID]; ok {
		return e.session, true
	}
	return Session{}, false
}

// Update runs fn on the client's session under the store lock, creating the
// session at cursor 0 if absent, then marks it accessed at now. Concurrent
// updates for the same client are serialized.
func (s *SessionStore) Update(clientID string, now time.Time, fn func(sess *Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[clientID]
	if !ok {
		e = &sessionEntry{session: Session{ClientID: clientID}}
		s.items[clientID] = e
		s.addToFront(e)
		for len(s.items) > s.capacity {
			s.evictOldest()
		}
	} else {
		s.moveToFront(e)
	}

	fn(&e.session)
	e.session.LastAccessed = now
	return e.session
}

// Delete removes the session. It reports whether one existed.
func (s *SessionStore) Delete(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[clientID]; ok {
		s.removeEntry(e)
		return true
	}
	return false
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for e := s.tail.prev; e != s.head; {
		prev := e.prev
		if now.Sub(e.session.LastAccessed) <= s.ttl {
			// Entries are ordered by access; the rest are newer.
			break
		}
		s.removeEntry(e)
		removed++
		e = prev
	}
	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evicted returns how many sessions were dropped for capacity.
func (s *SessionStore) Evicted() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

func (s *SessionStore) addToFront(e *sessionEntry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

func (s *SessionStore) unlink(e *sessionEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (s *SessionStore) moveToFront(e *sessionEntry) {
	s.unlink(e)
	s.addToFront(e)
}

func (s *SessionStore) removeEntry(e *sessionEntry) {
	s.unlink(e)
	delete(s.items, e.session.ClientID)
}

func (s *SessionStore) evictOldest() {
	if oldest := s.tail.prev; oldest != s.head {
		s.removeEntry(oldest)
		s.evicted++
		metrics.CatalogSessionsEvicted.Inc()
	}
}
