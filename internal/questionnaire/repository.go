package questionnaire

import (
	"sync"

	"github.com/google/uuid"
)

// Repository holds live questionnaire sessions in memory. Sessions are
// client-local and carry no cross-session state, so there is nothing to
// persist beyond the previous-recommendation slot handled elsewhere.
type Repository struct {
	mu       sync.RWMutex
	sessions map[string]*Engine
}

// NewRepository creates an empty session repository.
func NewRepository() *Repository {
	return &Repository{sessions: make(map[string]*Engine)}
}

// Create starts a new session and returns its engine.
func (r *Repository) Create() *Engine {
	engine := NewEngine(uuid.New().String())

	r.mu.Lock()
	r.sessions[engine.SessionID()] = engine
	r.mu.Unlock()

	return engine
}

// Get returns the engine for a session id.
func (r *Repository) Get(sessionID string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return engine, nil
}

// Delete discards a session.
func (r *Repository) Delete(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}
