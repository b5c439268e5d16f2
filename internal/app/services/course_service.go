package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// CourseService handles courses and enrolments
type CourseService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repos *repositories.Repositories, guard *authz.Guard, logger zerolog.Logger) *CourseService {
	return &CourseService{
		repos:  repos,
		guard:  guard,
		logger: logger,
	}
}

// validateCourse rejects structurally invalid courses, including missing references
func (s *CourseService) validateCourse(course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("course is nil")
	}
	if strings.TrimSpace(course.Code) == "" || strings.TrimSpace(course.Name) == "" {
		return apperrors.NewValidationError("course code and name are required")
	}
	if course.TeacherID <= 0 {
		return apperrors.NewValidationError("course must have a teacher")
	}
	if course.DepartmentID <= 0 {
		return apperrors.NewValidationError("course must belong to a department")
	}
	return nil
}

// ensureReferences checks that the course's department and teacher exist
func (s *CourseService) ensureReferences(ctx context.Context, repos *repositories.Repositories, course *models.Course) error {
	department, err := repos.DepartmentRepository.FindByID(ctx, course.DepartmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return apperrors.ErrDepartmentNotFound
	}

	teacher, err := repos.TeacherRepository.FindByID(ctx, course.TeacherID)
	if err != nil {
		return err
	}
	if teacher == nil {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}

// GetAllCourses lists every course
func (s *CourseService) GetAllCourses(ctx context.Context, principal string) ([]*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpListCourses); err != nil {
		return nil, err
	}
	return s.repos.CourseRepository.FindAll(ctx)
}

// GetCourseByID retrieves a course with its enrolled students
func (s *CourseService) GetCourseByID(ctx context.Context, principal string, id int64) (*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpViewCourse); err != nil {
		return nil, err
	}

	course, err := s.repos.CourseRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// CreateCourse creates a new course
func (s *CourseService) CreateCourse(ctx context.Context, principal string, course *models.Course) (*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpCreateCourse); err != nil {
		return nil, err
	}
	if err := s.validateCourse(course); err != nil {
		return nil, err
	}

	var created *models.Course
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if err := s.ensureReferences(ctx, tx, course); err != nil {
			return err
		}
		course.ID = 0
		var err error
		created, err = tx.CourseRepository.Save(ctx, course)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info().Int64("courseID", created.ID).Str("code", created.Code).Msg("Course created")
	return created, nil
}

// UpdateCourse updates an existing course
func (s *CourseService) UpdateCourse(ctx context.Context, principal string, id int64, course *models.Course) (*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpUpdateCourse); err != nil {
		return nil, err
	}
	if err := s.validateCourse(course); err != nil {
		return nil, err
	}

	var updated *models.Course
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if err := s.ensureReferences(ctx, tx, course); err != nil {
			return err
		}
		course.ID = id
		var err error
		updated, err = tx.CourseRepository.Save(ctx, course)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return updated, nil
}

// DeleteCourse deletes a course and its enrolments. Missing ids are a no-op.
func (s *CourseService) DeleteCourse(ctx context.Context, principal string, id int64) error {
	if _, err := s.guard.Check(ctx, principal, authz.OpDeleteCourse); err != nil {
		return err
	}
	if err := s.repos.CourseRepository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// EnrollStudent adds a student to a course. Enrolling twice has no effect.
func (s *CourseService) EnrollStudent(ctx context.Context, principal string, courseID, studentID int64) (*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpEnrollStudent); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if err := s.ensureEnrolmentParties(ctx, tx, courseID, studentID); err != nil {
			return err
		}
		if err := tx.StudentRepository.Enroll(ctx, studentID, courseID); err != nil {
			return err
		}
		var err error
		course, err = tx.CourseRepository.FindByID(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error enrolling student: %w", err)
	}

	s.logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student enrolled")
	return course, nil
}

// UnenrollStudent removes a student from a course
func (s *CourseService) UnenrollStudent(ctx context.Context, principal string, courseID, studentID int64) (*models.Course, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpUnenrollStudent); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if err := s.ensureEnrolmentParties(ctx, tx, courseID, studentID); err != nil {
			return err
		}
		if err := tx.StudentRepository.Unenroll(ctx, studentID, courseID); err != nil {
			return err
		}
		var err error
		course, err = tx.CourseRepository.FindByID(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error unenrolling student: %w", err)
	}
	return course, nil
}

func (s *CourseService) ensureEnrolmentParties(ctx context.Context, repos *repositories.Repositories, courseID, studentID int64) error {
	course, err := repos.CourseRepository.FindByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return apperrors.ErrCourseNotFound
	}

	student, err := repos.StudentRepository.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
