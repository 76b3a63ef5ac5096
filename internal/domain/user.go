package domain

import "time"

// Role is a user role.
type Role string

const (
	// RoleStudent may upload documents and create registrations.
	RoleStudent Role = "student"
	// RoleProfessor may maintain a profile and accept or reject registrations.
	RoleProfessor Role = "professor"
)

// User is the minimal account read-model the matching core needs: identity,
// display name for notification text, and role for access checks.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Document is the minimal document read-model: ownership for access checks and
// a filename for notification and listing enrichment.
type Document struct {
	ID        string
	OwnerID   string
	Filename  string
	Summary   string
	CreatedAt time.Time
}
