package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, receives manager anomaly reports
	RoleManager  Role = "manager"  // Can approve absences, receives team anomaly reports
	RoleEmployee Role = "employee" // Regular employee
)

var RoleValues = []string{
	string(RoleAdmin),
	string(RoleManager),
	string(RoleEmployee),
}

// SystemEmail identifies the reserved system account that authors
// compliance reports. Its absence is a deployment defect.
const SystemEmail = "system@presencehq.local"

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash *string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsManager checks if user holds the manager role
func (u *User) IsManager() bool {
	return u.HasRole(RoleManager)
}

// FullName returns the display name used in report bodies.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ParseRoles normalizes raw role strings into the typed set, dropping
// anything unknown. Adapters own this; the core only sees typed roles.
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		switch Role(s) {
		case RoleAdmin, RoleManager, RoleEmployee:
			roles = append(roles, Role(s))
		}
	}
	return roles
}
