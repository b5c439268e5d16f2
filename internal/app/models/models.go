package models

// Role is the privilege level assigned to an Account at registration
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER" // staff role, full access
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// ProfileKind selects which profile record a self-service save targets.
// Its values line up with Role: a STUDENT account owns a Student profile.
type ProfileKind = Role
