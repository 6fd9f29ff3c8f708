// ABOUTME: Authenticator registers and logs in users against the user store.
// ABOUTME: Passwords are validated for shape on register but never stored or checked.
package session

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/harperreed/healthai/internal/apperr"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/store"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Compile-time check that the KV-backed store satisfies UserRepository.
var _ UserRepository = (*store.UserStore)(nil)

// Authenticator moves sessions between anonymous and authenticated.
type Authenticator struct {
	users UserRepository
}

// NewAuthenticator creates an Authenticator over users.
func NewAuthenticator(users UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// ValidateRegistration checks the shape of a registration request.
func ValidateRegistration(email, password, name string) error {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
		return apperr.Validation("Email, password, and name are required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return apperr.Validation("Please enter a valid email address")
	}
	if len(password) < MinPasswordLength {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	return nil
}

// Register creates an account and authenticates s as it.
func (a *Authenticator) Register(ctx context.Context, s *Session, email, password, name string) (*models.User, error) {
	if err := ValidateRegistration(email, password, name); err != nil {
		return nil, err
	}

	u := models.NewUser(email, name)
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, apperr.Conflict("User already exists with this email")
		}
		return nil, apperr.Internal(err, "register user")
	}
	s.set(u)
	return u, nil
}

// Login authenticates s as the account registered under email.
func (a *Authenticator) Login(ctx context.Context, s *Session, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err, "find user")
	}
	s.set(u)
	return u, nil
}

// LoginDemo authenticates s as the demo user.
func (a *Authenticator) LoginDemo(s *Session) *models.User {
	u := models.DemoUser()
	s.set(u)
	return u
}

// Logout returns s to anonymous.
func (a *Authenticator) Logout(s *Session) {
	s.set(nil)
}
