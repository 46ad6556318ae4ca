package http

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mauv0809/arena/internal/arena"
)

// SessionRegistry maps opaque bearer tokens to logged-in sessions.
// It is safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]arena.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]arena.Session)}
}

// Create stores sess under a new random token.
func (r *SessionRegistry) Create(sess arena.Session) string {
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = sess
	return token
}

func (r *SessionRegistry) Get(token string) (arena.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[token]
	return sess, ok
}

// Delete ends the session for token. It reports whether the token was known.
func (r *SessionRegistry) Delete(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	return ok
}
