package auth

import (
	"time"

	"github.com/minexboard/minex/internal/rbac"
)

// User represents a user account row.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         rbac.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
