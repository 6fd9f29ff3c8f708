// ABOUTME: User model and the fixed demo identity.
// ABOUTME: Users are immutable once created.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DemoUserID is the reserved identity whose data is seeded on first read.
const DemoUserID = "demo-user-123"

// User is an account holder.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	IsDemo    bool      `json:"isDemo" yaml:"is_demo"`
}

// DemoUser returns the fixed demo identity.
func DemoUser() *User {
	return &User{
		ID:        DemoUserID,
		Email:     "demo@healthapp.com",
		Name:      "Demo User",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsDemo:    true,
	}
}

// NewUser creates a non-demo user with a generated ID.
func NewUser(email, name string) *User {
	return &User{
		ID:        "user-" + uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
}

// FieldError describes a missing or malformed field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
