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

const teacherColumns = `id, first_name, last_name, email, employee_id, department_id, account_id`

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db DBTX
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db DBTX) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Email, &t.EmployeeID, &t.DepartmentID, &t.AccountID); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindAll retrieves all teachers
func (r *TeacherRepository) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]*models.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}

	return teachers, rows.Err()
}

// FindByID retrieves a teacher by ID. It returns nil when no row matches.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := scanTeacher(r.db.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return teacher, nil
}

// Save inserts a teacher without an ID, otherwise updates it in place
func (r *TeacherRepository) Save(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if teacher.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO teachers (first_name, last_name, email, employee_id, department_id, account_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			teacher.FirstName, teacher.LastName, teacher.Email, teacher.EmployeeID, teacher.DepartmentID, teacher.AccountID,
		).Scan(&teacher.ID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "teachers_account_id_key") {
				return nil, apperrors.ErrLinkConflict
			}
			return nil, fmt.Errorf("error creating teacher: %w", err)
		}
		return teacher, nil
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE teachers
		SET first_name = $1, last_name = $2, email = $3, employee_id = $4, department_id = $5, account_id = $6
		WHERE id = $7`,
		teacher.FirstName, teacher.LastName, teacher.Email, teacher.EmployeeID, teacher.DepartmentID, teacher.AccountID, teacher.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_account_id_key") {
			return nil, apperrors.ErrLinkConflict
		}
		return nil, fmt.Errorf("error updating teacher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrTeacherNotFound
	}

	return teacher, nil
}

// DeleteByID deletes a teacher by ID. Deleting a missing teacher is a no-op.
func (r *TeacherRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTeacherHasCourses
		}
		return fmt.Errorf("error deleting teacher: %w", err)
	}
	return nil
}

// Count returns the number of teachers
func (r *TeacherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teachers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting teachers: %w", err)
	}
	return count, nil
}

// HasCourses checks whether any course is taught by the teacher
func (r *TeacherRepository) HasCourses(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE teacher_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking teacher courses: %w", err)
	}
	return exists, nil
}
