package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Stock log writes require admin or manager.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GoogleID  string    `json:"google_id" db:"google_id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanManageStock reports whether the user may write stock logs.
func (u *User) CanManageStock() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
