package models

import "time"

// UserRole matches the role ENUM in the database.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

// Valid reports whether the role is one of the two defined values.
// Anything else is a validation failure, never coerced.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Confirmed    bool      `json:"confirmed" db:"confirmed"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
