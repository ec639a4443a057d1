package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleCollector UserRole = "juru_pungut"
)

// User represents an account able to sign in: an administrator or a field
// collector (juru pungut).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"nama"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Actor identifies who performed a mutating operation. The email is a
// snapshot taken at the time of the action so the audit trail stays readable
// even after the account changes.
type Actor struct {
	UserID string
	Email  string
}
