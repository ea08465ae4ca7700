package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the route guards.
const (
	RoleAdmin      = "admin"
	RoleProprietor = "proprietor"
	RoleTeacher    = "teacher"
	RoleStaff      = "staff"
	RoleParent     = "parent"
	RoleStudent    = "student"
)

// User is the caller identity resolved by the auth middleware. Only the
// fields the guards need are modeled here.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// APIKey is an internal-service credential checked by the x-api-key guard.
type APIKey struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	Label     string    `json:"label" db:"label"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
