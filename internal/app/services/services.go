package services

import (
	"github.com/rs/zerolog"
	authz "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// Services defined in this package:
// - AccountService: registration, login and the caller's role claim
// - ProfileService: self-service profile create-or-update with ownership checks
// - DepartmentService, TeacherService, StudentService, CourseService: staff-side directory
// - DashboardService: landing page data
type Services struct {
	AccountService    *AccountService
	ProfileService    *ProfileService
	DepartmentService *DepartmentService
	TeacherService    *TeacherService
	StudentService    *StudentService
	CourseService     *CourseService
	DashboardService  *DashboardService
}

// NewServices wires every service against one set of repositories
func NewServices(repos *repositories.Repositories, hasher auth.PasswordHasher, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	gate := authz.NewGate()
	guard := authz.NewGuard(authz.NewResolver(repos.AccountRepository), gate)

	return &Services{
		AccountService:    NewAccountService(repos.AccountRepository, hasher, jwtService, guard, logger.With().Str("service", "account").Logger()),
		ProfileService:    NewProfileService(repos, guard, logger.With().Str("service", "profile").Logger()),
		DepartmentService: NewDepartmentService(repos, guard, logger.With().Str("service", "department").Logger()),
		TeacherService:    NewTeacherService(repos, guard, logger.With().Str("service", "teacher").Logger()),
		StudentService:    NewStudentService(repos, guard, logger.With().Str("service", "student").Logger()),
		CourseService:     NewCourseService(repos, guard, logger.With().Str("service", "course").Logger()),
		DashboardService:  NewDashboardService(repos, guard, gate, logger.With().Str("service", "dashboard").Logger()),
	}
}
