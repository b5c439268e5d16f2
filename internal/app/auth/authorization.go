package auth

import (
	"fmt"
	"slices"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// Operation names a guarded action
type Operation string

const (
	OpViewOwnProfile Operation = "profile:view"
	OpEditOwnProfile Operation = "profile:edit"
	OpViewDashboard  Operation = "dashboard:view"
	OpViewCounts     Operation = "dashboard:counts"

	OpListStudents  Operation = "students:list"
	OpViewStudent   Operation = "students:view"
	OpCreateStudent Operation = "students:create"
	OpUpdateStudent Operation = "students:update"
	OpDeleteStudent Operation = "students:delete"

	OpListTeachers  Operation = "teachers:list"
	OpViewTeacher   Operation = "teachers:view"
	OpCreateTeacher Operation = "teachers:create"
	OpUpdateTeacher Operation = "teachers:update"
	OpDeleteTeacher Operation = "teachers:delete"

	OpListCourses     Operation = "courses:list"
	OpViewCourse      Operation = "courses:view"
	OpCreateCourse    Operation = "courses:create"
	OpUpdateCourse    Operation = "courses:update"
	OpDeleteCourse    Operation = "courses:delete"
	OpEnrollStudent   Operation = "courses:enroll"
	OpUnenrollStudent Operation = "courses:unenroll"

	OpListDepartments  Operation = "departments:list"
	OpViewDepartment   Operation = "departments:view"
	OpCreateDepartment Operation = "departments:create"
	OpUpdateDepartment Operation = "departments:update"
	OpDeleteDepartment Operation = "departments:delete"
)

var (
	anyRole   = []models.Role{models.RoleStudent, models.RoleTeacher}
	staffOnly = []models.Role{models.RoleTeacher}
)

// defaultPolicy maps every known operation to the roles allowed to perform it
var defaultPolicy = map[Operation][]models.Role{
	OpViewOwnProfile: anyRole,
	OpEditOwnProfile: anyRole,
	OpViewDashboard:  anyRole,
	OpViewCounts:     staffOnly,

	OpListStudents:  anyRole,
	OpViewStudent:   anyRole,
	OpCreateStudent: staffOnly,
	OpUpdateStudent: staffOnly,
	OpDeleteStudent: staffOnly,

	OpListTeachers:  staffOnly,
	OpViewTeacher:   staffOnly,
	OpCreateTeacher: staffOnly,
	OpUpdateTeacher: staffOnly,
	OpDeleteTeacher: staffOnly,

	OpListCourses:     staffOnly,
	OpViewCourse:      anyRole,
	OpCreateCourse:    staffOnly,
	OpUpdateCourse:    staffOnly,
	OpDeleteCourse:    staffOnly,
	OpEnrollStudent:   staffOnly,
	OpUnenrollStudent: staffOnly,

	OpListDepartments:  staffOnly,
	OpViewDepartment:   staffOnly,
	OpCreateDepartment: staffOnly,
	OpUpdateDepartment: staffOnly,
	OpDeleteDepartment: staffOnly,
}

// Gate evaluates role claims against a static policy table. It never touches the store.
type Gate struct {
	policy map[Operation][]models.Role
}

// NewGate creates a gate with the built-in policy
func NewGate() *Gate {
	return &Gate{policy: defaultPolicy}
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func (g *Gate) Allowed(role models.Role, op Operation) bool {
	roles, ok := g.policy[op]
	if !ok {
		return false
	}
	return slices.Contains(roles, role)
}

// Authorize returns ErrForbidden unless the claim's role may perform op
func (g *Gate) Authorize(claim models.RoleClaim, op Operation) error {
	if !g.Allowed(claim.Role, op) {
		return apperrors.NewCustomError(apperrors.ErrForbidden,
			fmt.Sprintf("role %s may not perform %s", claim.Role, op))
	}
	return nil
}
