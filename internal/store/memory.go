package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-panel/internal/weather"
)

var (
	// ErrNotFound is returned when no panel exists for a session id.
	ErrNotFound = errors.New("no panel for session")
)

// PanelFactory builds the panel for a new session.
type PanelFactory func() *weather.Panel

type session struct {
	panel    *weather.Panel
	lastSeen time.Time
}

// MemoryStore is a concurrency-safe in-memory map of session id to Panel.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[uuid.UUID]*session

	newPanel PanelFactory
	maxAge   time.Duration // idle time after which a session may be evicted; 0 = never
	now      func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxAge is <= 0, sessions are never evicted.
func NewMemoryStore(factory PanelFactory, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:     make(map[uuid.UUID]*session),
		newPanel: factory,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Create registers a fresh panel under a new random session id.
func (s *MemoryStore) Create() (uuid.UUID, *weather.Panel) {
	id := uuid.New()
	p := s.newPanel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = &session{panel: p, lastSeen: s.now()}
	return id, p
}

// Get returns the panel for id and marks the session as seen.
func (s *MemoryStore) Get(id uuid.UUID) (*weather.Panel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastSeen = s.now()
	return sess.panel, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Prune evicts sessions idle for longer than maxAge, cancelling any search
// they still have in flight. It returns the number evicted.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	var evicted []*weather.Panel
	for id, sess := range s.data {
		if sess.lastSeen.Before(cutoff) {
			evicted = append(evicted, sess.panel)
			delete(s.data, id)
		}
	}
	s.mu.Unlock()

	for _, p := range evicted {
		p.Cancel()
	}
	return len(evicted)
}
