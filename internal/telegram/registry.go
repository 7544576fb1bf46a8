package telegram

import (
	"context"
	"sync"
)

// Registry owns the live sessions, keyed by interface ID. It is the only
// holder of session lifetime: sessions enter on successful login and
// leave on logout or shutdown. Mutation happens only at those
// boundaries, so a plain mutex is enough.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: map[int64]*Session{}}
}

// Register adds a session under its interface ID. A second registration
// for the same ID fails with ErrAlreadyRegistered.
func (r *Registry) Register(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[session.interfaceID]; exists {
		return ErrAlreadyRegistered
	}
	r.sessions[session.interfaceID] = session
	return nil
}

// Get returns the session for the given interface ID.
func (r *Registry) Get(interfaceID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[interfaceID]
	return session, ok
}

// Has reports whether an interface ID is registered.
func (r *Registry) Has(interfaceID int64) bool {
	_, ok := r.Get(interfaceID)
	return ok
}

// Remove detaches and returns the session for the given interface ID,
// or nil when unknown. The caller stops it.
func (r *Registry) Remove(interfaceID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := r.sessions[interfaceID]
	delete(r.sessions, interfaceID)
	return session
}

// Shutdown stops every session and empties the registry.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, session := range r.sessions {
		sessions = append(sessions, session)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, session := range sessions {
		session.Stop(ctx)
	}
}
