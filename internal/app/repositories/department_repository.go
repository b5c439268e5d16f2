package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db DBTX
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db DBTX) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// FindAll retrieves all departments
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT id, name, description
		FROM departments
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(&department.ID, &department.Name, &department.Description); err != nil {
			return nil, err
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// FindByID retrieves a department by ID. It returns nil when no row matches.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `
		SELECT id, name, description
		FROM departments
		WHERE id = $1
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, id).Scan(&department.ID, &department.Name, &department.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return &department, nil
}

// Save inserts a department without an ID, otherwise updates it in place
func (r *DepartmentRepository) Save(ctx context.Context, department *models.Department) (*models.Department, error) {
	if department.ID == 0 {
		query := `
			INSERT INTO departments (name, description)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := r.db.QueryRow(ctx, query, department.Name, department.Description).Scan(&department.ID); err != nil {
			return nil, fmt.Errorf("error creating department: %w", err)
		}
		return department, nil
	}

	query := `
		UPDATE departments
		SET name = $1, description = $2
		WHERE id = $3
	`
	cmdTag, err := r.db.Exec(ctx, query, department.Name, department.Description, department.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating department: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrDepartmentNotFound
	}

	return department, nil
}

// DeleteByID deletes a department by ID. Deleting a missing department is a no-op.
func (r *DepartmentRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentHasRelations
		}
		return fmt.Errorf("error deleting department: %w", err)
	}
	return nil
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting departments: %w", err)
	}
	return count, nil
}

// HasReferences checks whether teachers, students or courses still point at the department
func (r *DepartmentRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM teachers WHERE department_id = $1)
			OR EXISTS(SELECT 1 FROM students WHERE department_id = $1)
			OR EXISTS(SELECT 1 FROM courses WHERE department_id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking related entities: %w", err)
	}
	return exists, nil
}
