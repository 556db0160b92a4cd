package assessment

import (
	"context"
	"fmt"
	"sync"

	"github.com/skilltracker/skilltracker-backend/internal/model"
)

type sessionKey struct {
	userID   int
	kind     model.AssessmentKind
	language string
}

// Manager owns the live sessions, at most one per (user, kind, language).
// Sessions remove themselves on every exit path; a re-created session resumes
// from the durable scratch fragments, not from the old in-memory state.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
	deps     Deps
}

// NewManager creates a session manager with the given collaborator set.
func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[sessionKey]*Session),
		deps:     deps,
	}
}

// Open returns the live session for the key, or creates and starts a new one.
// A mock session for a perfectly-completed language opens directly into
// StatusLocked. Start failures leave no registered session behind.
func (m *Manager) Open(ctx context.Context, userID int, kind model.AssessmentKind, language string) (*Session, error) {
	key := sessionKey{userID: userID, kind: kind, language: language}

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return existing, nil
	}

	session := newSession(userID, kind, language, m.deps)
	session.onExit = func() { m.remove(key) }
	m.sessions[key] = session
	m.mu.Unlock()

	if err := session.Start(ctx); err != nil {
		m.remove(key)
		return nil, fmt.Errorf("start session: %w", err)
	}

	// Locked sessions have no timer and nothing to tear down; do not keep
	// them registered or a later retake check would be skipped.
	if session.Status() == StatusLocked {
		m.remove(key)
	}

	return session, nil
}

// Get returns the live session for the key, if any.
func (m *Manager) Get(userID int, kind model.AssessmentKind, language string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{userID: userID, kind: kind, language: language}]
	return s, ok
}

// Shutdown detaches every live session, stopping their timers while keeping
// scratch fragments for resume after restart.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[sessionKey]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Detach()
	}
}

func (m *Manager) remove(key sessionKey) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}
