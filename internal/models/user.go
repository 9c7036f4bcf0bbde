package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's application-wide role.
type Role string

const (
	RoleMember Role = "member"
	// RoleAdmin may override settlements and work the escalation queue.
	RoleAdmin Role = "admin"
)

// User represents a registered user account. Every user acts on behalf of
// exactly one organization.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown next to actions the user performed.
	DisplayName string

	// OrgID is the organization the user acts for.
	OrgID string

	Role Role

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a member user with a fresh ID and timestamps.
func NewUser(email, displayName, orgID, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		OrgID:        orgID,
		Role:         RoleMember,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Actor returns the workflow identity for u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, OrgID: u.OrgID, Admin: u.Role == RoleAdmin}
}
