// Package domain defines the core entities of the Curio application.
package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleUser grants standard user access.
	RoleUser Role = "USER"
	// RoleAdmin marks administrative accounts. No endpoint currently grants
	// admins a mutation bypass; ownership checks apply to everyone.
	RoleAdmin Role = "ADMIN"
)

// User represents a local user profile.
//
// Users are created lazily: the identity provider authenticates first, and
// the local row appears either through auto-provisioning (random username)
// or explicit onboarding (chosen username).
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"-"` // identity provider subject, never exposed
	Username    string    `json:"username"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	AvatarColor string    `json:"avatar_color"`
	Role        Role      `json:"role"`
	Aesthetic   string    `json:"aesthetic"`
	Palette     string    `json:"palette"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
