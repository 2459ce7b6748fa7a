package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Manager owns the live sessions, keyed by random UUID.
type Manager struct {
	ai  Assistant
	log *slog.Logger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(ai Assistant, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{ai: ai, log: log.With("component", "session"), now: time.Now, sessions: make(map[string]*Session)}
}

func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.ai, m.log)
	s.touch(m.now())
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.log.Info("session created", "session", s.id)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete removes the session and reports whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions not looked up for longer than idle and returns how
// many were removed.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastUsed().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.log.Info("idle sessions expired", "count", n, "remaining", len(m.sessions))
	}
	return n
}

// Expire calls Sweep every interval until ctx is done.
func (m *Manager) Expire(ctx context.Context, idle, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep(idle)
		}
	}
}
