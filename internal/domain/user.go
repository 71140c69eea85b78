package domain

import "time"

// Role enumerates account roles. Roles form a closed set; permission checks
// go through Satisfies rather than string comparison at call sites.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleTechnician Role = "Technician"
	RoleStaff      Role = "Staff"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleStaff:
		return true
	}
	return false
}

// Satisfies reports whether a principal holding this role meets the required
// role. Admin satisfies every requirement; other roles require exact match.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User is the domain model for staff accounts. Technicians are users with
// RoleTechnician; deactivation flips Active instead of deleting the record.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Role         Role
	FirstName    string
	LastName     string
	Active       bool
	CreatedAt    time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
