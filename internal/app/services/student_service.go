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

// StudentService handles student listing and staff-side student management
type StudentService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, guard *authz.Guard, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repos:  repos,
		guard:  guard,
		logger: logger,
	}
}

func (s *StudentService) validateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is nil")
	}
	if strings.TrimSpace(student.FirstName) == "" || strings.TrimSpace(student.LastName) == "" {
		return apperrors.NewValidationError("first and last name are required")
	}
	if strings.TrimSpace(student.StudentID) == "" {
		return apperrors.NewValidationError("student number is required")
	}
	return nil
}

// GetAllStudents lists every student
func (s *StudentService) GetAllStudents(ctx context.Context, principal string) ([]*models.Student, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpListStudents); err != nil {
		return nil, err
	}
	return s.repos.StudentRepository.FindAll(ctx)
}

// GetStudentByID retrieves a student with its enrolments
func (s *StudentService) GetStudentByID(ctx context.Context, principal string, id int64) (*models.Student, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpViewStudent); err != nil {
		return nil, err
	}

	student, err := s.repos.StudentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

// CreateStudent creates a student that no account owns yet
func (s *StudentService) CreateStudent(ctx context.Context, principal string, student *models.Student) (*models.Student, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpCreateStudent); err != nil {
		return nil, err
	}
	if err := s.validateStudent(student); err != nil {
		return nil, err
	}
	if err := ensureDepartment(ctx, s.repos, student.DepartmentID); err != nil {
		return nil, err
	}

	student.ID = 0
	student.AccountID = nil
	created, err := s.repos.StudentRepository.Save(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentID", created.ID).Msg("Student created")
	return created, nil
}

// UpdateStudent updates a student in place. Enrolments and the account back-reference are kept.
func (s *StudentService) UpdateStudent(ctx context.Context, principal string, id int64, student *models.Student) (*models.Student, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpUpdateStudent); err != nil {
		return nil, err
	}
	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		existing, err := tx.StudentRepository.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.ErrStudentNotFound
		}
		if err := ensureDepartment(ctx, tx, student.DepartmentID); err != nil {
			return err
		}

		student.ID = id
		student.AccountID = existing.AccountID
		updated, err = tx.StudentRepository.Save(ctx, student)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return updated, nil
}

// DeleteStudent deletes a student with its enrolments and unlinks its account.
// Missing ids are a no-op.
func (s *StudentService) DeleteStudent(ctx context.Context, principal string, id int64) error {
	if _, err := s.guard.Check(ctx, principal, authz.OpDeleteStudent); err != nil {
		return err
	}

	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.AccountRepository.ClearStudentLink(ctx, id); err != nil {
			return err
		}
		return tx.StudentRepository.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
