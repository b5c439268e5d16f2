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

// DepartmentService handles department-related operations
type DepartmentService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	logger zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(repos *repositories.Repositories, guard *authz.Guard, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		repos:  repos,
		guard:  guard,
		logger: logger,
	}
}

// validateDepartment validates department data before database operations
func (s *DepartmentService) validateDepartment(department *models.Department) error {
	if department == nil {
		return apperrors.NewValidationError("department is nil")
	}
	if strings.TrimSpace(department.Name) == "" {
		return apperrors.NewValidationError("department name cannot be empty")
	}
	return nil
}

// GetAllDepartments lists every department
func (s *DepartmentService) GetAllDepartments(ctx context.Context, principal string) ([]*models.Department, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpListDepartments); err != nil {
		return nil, err
	}
	return s.repos.DepartmentRepository.FindAll(ctx)
}

// GetDepartmentByID retrieves a department by ID
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, principal string, id int64) (*models.Department, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpViewDepartment); err != nil {
		return nil, err
	}

	department, err := s.repos.DepartmentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return department, nil
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, principal string, department *models.Department) (*models.Department, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpCreateDepartment); err != nil {
		return nil, err
	}
	if err := s.validateDepartment(department); err != nil {
		return nil, err
	}

	department.ID = 0
	created, err := s.repos.DepartmentRepository.Save(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("error creating department: %w", err)
	}

	s.logger.Info().Int64("departmentID", created.ID).Str("name", created.Name).Msg("Department created")
	return created, nil
}

// UpdateDepartment updates an existing department
func (s *DepartmentService) UpdateDepartment(ctx context.Context, principal string, id int64, department *models.Department) (*models.Department, error) {
	if _, err := s.guard.Check(ctx, principal, authz.OpUpdateDepartment); err != nil {
		return nil, err
	}
	if err := s.validateDepartment(department); err != nil {
		return nil, err
	}

	department.ID = id
	updated, err := s.repos.DepartmentRepository.Save(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("error updating department: %w", err)
	}
	return updated, nil
}

// DeleteDepartment deletes a department that nothing references. Missing ids are a no-op.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, principal string, id int64) error {
	if _, err := s.guard.Check(ctx, principal, authz.OpDeleteDepartment); err != nil {
		return err
	}

	err := s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		referenced, err := tx.DepartmentRepository.HasReferences(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.ErrDepartmentHasRelations
		}
		return tx.DepartmentRepository.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}

	s.logger.Info().Int64("departmentID", id).Msg("Department deleted")
	return nil
}
