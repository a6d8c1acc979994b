package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes regular accounts from parent accounts that can
// monitor linked children.
type Role string

const (
	RoleUser   Role = "user"
	RoleParent Role = "parent"
)

// User represents a registered user account.
// Identity is immutable once created; every other entity references users
// by ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login and for
	// friend lookup.
	Email string

	// Phone is the user's phone number. Optional; also usable for friend
	// lookup when set.
	Phone string

	// Role is either "user" or "parent".
	Role Role

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to API responses.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser constructs a User with a fresh ID and creation timestamp.
func NewUser(name, email, phone, passwordHash string, role Role) *User {
	if role == "" {
		role = RoleUser
	}
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
