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

// TeacherService handles staff-side teacher management
type TeacherService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	logger zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(repos *repositories.Repositories, guard *authz.Guard, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		repos:  repos,
		guard:  guard,
		logger: logger,
	}
}

func (s *TeacherService) validateTeacher(teacher *models.Teacher) error {
	if teacher == nil {
		return apperrors.NewValidationError("teacher is nil")
	}
	if strings.TrimSpace(teacher.FirstName) == "" || strings.TrimSpace(teacher.LastName) == "" {
		return apperrors.NewValidationError("first and last name are required")
	}
	if strings.TrimSpace(teacher.EmployeeID) == "" {
		return apperrors.NewValidationError("employee number is required")
	}
	return nil
}

// GetAllTeachers lists every teacher
func (s *TeacherService) GetAllTeachers(ctx context.Context, principal string) ([]*models.Teacher, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpListTeachers); err != nil {
		return nil, err
	}
	return s.repos.TeacherRepository.FindAll(ctx)
}

// GetTeacherByID retrieves a teacher by ID
func (s *TeacherService) GetTeacherByID(ctx context.Context, principal string, id int64) (*models.Teacher, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpViewTeacher); err != nil {
		return nil, err
	}

	teacher, err := s.repos.TeacherRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	if teacher == nil {
		return nil, apperrors.ErrTeacherNotFound
	}
	return teacher, nil
}

// CreateTeacher creates a teacher that no account owns yet
func (s *TeacherService) CreateTeacher(ctx context.Context, principal string, teacher *models.Teacher) (*models.Teacher, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpCreateTeacher); err != nil {
		return nil, err
	}
	if err := s.validateTeacher(teacher); err != nil {
		return nil, err
	}
	if err := ensureDepartment(ctx, s.repos, teacher.DepartmentID); err != nil {
		return nil, err
	}

	teacher.ID = 0
	teacher.AccountID = nil
	created, err := s.repos.TeacherRepository.Save(ctx, teacher)
	if err != nil {
		return nil, fmt.Errorf("error creating teacher: %w", err)
	}

	s.logger.Info().Int64("teacherID", created.ID).Msg("Teacher created")
	return created, nil
}

// UpdateTeacher updates a teacher in place. The account back-reference is kept as stored.
func (s *TeacherService) UpdateTeacher(ctx context.Context, principal string, id int64, teacher *models.Teacher) (*models.Teacher, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpUpdateTeacher); err != nil {
		return nil, err
	}
	if err := s.validateTeacher(teacher); err != nil {
		return nil, err
	}

	var updated *models.Teacher
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		existing, err := tx.TeacherRepository.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.ErrTeacherNotFound
		}
		if err := ensureDepartment(ctx, tx, teacher.DepartmentID); err != nil {
			return err
		}

		teacher.ID = id
		teacher.AccountID = existing.AccountID
		updated, err = tx.TeacherRepository.Save(ctx, teacher)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating teacher: %w", err)
	}
	return updated, nil
}

// DeleteTeacher deletes a teacher that teaches no course and unlinks its account.
// Missing ids are a no-op.
func (s *TeacherService) DeleteTeacher(ctx context.Context, principal string, id int64) error {
	if _, err := s.guard.Check(ctx, principal, authz.OpDeleteTeacher); err != nil {
		return err
	}

	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		hasCourses, err := tx.TeacherRepository.HasCourses(ctx, id)
		if err != nil {
			return err
		}
		if hasCourses {
			return apperrors.ErrTeacherHasCourses
		}
		if err := tx.AccountRepository.ClearTeacherLink(ctx, id); err != nil {
			return err
		}
		return tx.TeacherRepository.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting teacher: %w", err)
	}

	s.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}

// ensureDepartment checks that an optional department reference points at a stored department
func ensureDepartment(ctx context.Context, repos *repositories.Repositories, departmentID *int64) error {
	if departmentID == nil {
		return nil
	}
	department, err := repos.DepartmentRepository.FindByID(ctx, *departmentID)
	if err != nil {
		return err
	}
	if department == nil {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}
