package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserStatus is the account-level enable/disable flag. It is independent of
// soft deletion: an inactive account still exists and can be reactivated.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// IsValid reports whether s is one of the known statuses.
func (s UserStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserInactive = errors.New("user is inactive")
var ErrUserNotFound = errors.New("user not found")
var ErrRoleNotFound = errors.New("role not found")
var ErrEmailTaken = errors.New("email already in use")
var ErrForbidden = errors.New("access forbidden")

// User is the core identity record. PasswordHash is opaque outside the
// password package and is never serialized.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Description  string     `json:"description,omitempty"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Role is a named permission bucket referenced by User. The two records
// (user, admin) are seeded at startup and resolved by name when an account
// is created.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
