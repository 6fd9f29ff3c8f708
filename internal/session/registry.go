// ABOUTME: Registry maps bearer tokens to authenticated sessions.
// ABOUTME: Tokens are "token-<userId>" and live until revoked.
package session

import (
	"sync"

	"github.com/harperreed/healthai/internal/apperr"
)

// TokenPrefix is prepended to the user id to form a token.
const TokenPrefix = "token-"

// Registry tracks issued tokens.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Issue returns a token for an authenticated session.
func (r *Registry) Issue(s *Session) (string, error) {
	u, ok := s.Current()
	if !ok {
		return "", apperr.Auth("Not authenticated")
	}

	token := TokenPrefix + u.ID
	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()
	return token, nil
}

// Lookup returns the session behind token if it is still authenticated.
func (r *Registry) Lookup(token string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok || !s.Authenticated() {
		return nil, false
	}
	return s, true
}

// Revoke forgets token. Unknown tokens are ignored.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}
