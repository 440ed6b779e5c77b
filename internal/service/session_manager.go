package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/artsearch/internal/domain"
	"github.com/timmy/artsearch/internal/logger"
)

// DefaultSessionTTL is how long an idle search session is kept.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// SessionManager keeps the search sessions of all connected clients.
type SessionManager struct {
	agg *Aggregator
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionManager creates a new session manager.
// Parameters:
//   - agg: aggregator that backs every session.
//   - ttl: idle time after which a session is evicted; zero uses DefaultSessionTTL.
//
// Returns:
//   - *SessionManager: initialized manager.
func NewSessionManager(agg *Aggregator, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		agg:      agg,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create registers a new empty session and returns its id.
func (m *SessionManager) Create() (string, *Session) {
	id := uuid.New().String()
	s := m.agg.NewSession()

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{session: s, lastUsed: m.now()}
	m.mu.Unlock()
	return id, s
}

// Get returns the session with the given id and refreshes its idle timer.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.lastUsed = m.now()
	return e.session, nil
}

// Delete drops a session. Deleting an unknown id returns domain.ErrSessionNotFound.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many were removed.
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions periodically until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx = logger.SetComponent(ctx, "session_sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.With(logger.Fields{
					logger.FieldCount: n,
				}).Info(ctx, "Evicted idle search sessions: remaining=%d", m.Len())
			}
		}
	}
}
