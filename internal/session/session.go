// ABOUTME: Session holds the identity of the caller, if any.
// ABOUTME: Sessions are passed explicitly; there is no global current user.
package session

import (
	"sync"

	"github.com/harperreed/healthai/internal/models"
)

// Session is either anonymous or authenticated as one user.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

// New returns an anonymous session.
func New() *Session {
	return &Session{}
}

// NewAuthenticated returns a session already holding u.
func NewAuthenticated(u *models.User) *Session {
	return &Session{user: u}
}

// Current returns the held identity.
func (s *Session) Current() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user != nil
}

// Authenticated reports whether the session holds a user.
func (s *Session) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
