package screening

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Default session bounds.
const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultMaxSessions = 1000
)

// MemoryStore keeps sessions in process memory. Nothing survives a restart.
// Sessions idle for longer than TTL are dropped, and at most MaxSessions are
// held at once. A zero TTL or MaxSessions disables that bound.
type MemoryStore struct {
	TTL         time.Duration
	MaxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs a MemoryStore with the default bounds.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		TTL:         DefaultSessionTTL,
		MaxSessions: DefaultMaxSessions,
		sessions:    make(map[string]*Session),
		now:         time.Now,
	}
}

// Create registers a new empty session. Expired sessions are swept first;
// ErrStoreFull is returned when the cap is still reached.
func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)
	if m.MaxSessions > 0 && len(m.sessions) >= m.MaxSessions {
		return nil, ErrStoreFull
	}
	s := newSession(uuid.NewString(), now)
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with the given ID and marks it as recently used.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := m.now().UTC()
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.TTL > 0 && s.idleExpired(now, m.TTL) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// Delete discards a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(now)
}

func (m *MemoryStore) sweepLocked(now time.Time) int {
	if m.TTL <= 0 {
		return 0
	}
	removed := 0
	for id, s := range m.sessions {
		if s.idleExpired(now, m.TTL) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
