package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleDelegate      Role = "delegate"
	RoleInstructor    Role = "instructor"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDelegate, RoleInstructor, RoleAdministrator:
		return true
	}
	return false
}

// SelfAssignable reports whether r may be chosen at registration.
func (r Role) SelfAssignable() bool {
	return r == RoleDelegate || r == RoleInstructor
}

// Account is a registered user of the booking service.
type Account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Approved     bool
	CreatedAt    time.Time
}

// IsAdmin reports whether the account holds the administrator role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdministrator
}
