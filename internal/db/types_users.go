package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/types"
)

// User represents a team member who can sign in
type User struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	Role         types.UserRole `json:"role"`
	PasswordHash string         `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool           `json:"passwordSet" db:"password_set"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
