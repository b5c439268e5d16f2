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

const studentSelect = `
	SELECT s.id, s.first_name, s.last_name, s.email, s.student_id, s.department_id, s.account_id,
		COALESCE((SELECT array_agg(sc.course_id ORDER BY sc.course_id)
			FROM student_courses sc WHERE sc.student_id = s.id), '{}')
	FROM students s`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.StudentID, &s.DepartmentID, &s.AccountID, &s.EnrolledCourseIDs)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindAll retrieves all students with their enrolments
func (r *StudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, studentSelect+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// FindByID retrieves a student by ID. It returns nil when no row matches.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// Save inserts a student without an ID, otherwise updates it in place.
// Enrolments are managed with Enroll/Unenroll and are not written here.
func (r *StudentRepository) Save(ctx context.Context, student *models.Student) (*models.Student, error) {
	if student.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO students (first_name, last_name, email, student_id, department_id, account_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			student.FirstName, student.LastName, student.Email, student.StudentID, student.DepartmentID, student.AccountID,
		).Scan(&student.ID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "students_account_id_key") {
				return nil, apperrors.ErrLinkConflict
			}
			return nil, fmt.Errorf("error creating student: %w", err)
		}
		student.EnrolledCourseIDs = []int64{}
		return student, nil
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE students
		SET first_name = $1, last_name = $2, email = $3, student_id = $4, department_id = $5, account_id = $6
		WHERE id = $7`,
		student.FirstName, student.LastName, student.Email, student.StudentID, student.DepartmentID, student.AccountID, student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_account_id_key") {
			return nil, apperrors.ErrLinkConflict
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrStudentNotFound
	}

	ids, err := r.enrolledCourseIDs(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	student.EnrolledCourseIDs = ids

	return student, nil
}

// DeleteByID deletes a student and its enrolments. Deleting a missing student is a no-op.
func (r *StudentRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// Enroll adds the student to the course; enrolling twice is a no-op
func (r *StudentRepository) Enroll(ctx context.Context, studentID, courseID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO student_courses (student_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		studentID, courseID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}

// Unenroll removes the student from the course
func (r *StudentRepository) Unenroll(ctx context.Context, studentID, courseID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2`, studentID, courseID); err != nil {
		return fmt.Errorf("error unenrolling student: %w", err)
	}
	return nil
}

// FindIDsByCourse lists the students enrolled in a course
func (r *StudentRepository) FindIDsByCourse(ctx context.Context, courseID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT student_id FROM student_courses WHERE course_id = $1 ORDER BY student_id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning course students: %w", err)
	}
	return ids, nil
}

func (r *StudentRepository) enrolledCourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT course_id FROM student_courses WHERE student_id = $1 ORDER BY course_id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student courses: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning student courses: %w", err)
	}
	return ids, nil
}
