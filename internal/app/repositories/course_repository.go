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

const courseSelect = `
	SELECT c.id, c.code, c.name, c.description, c.department_id, c.teacher_id,
		COALESCE((SELECT array_agg(sc.student_id ORDER BY sc.student_id)
			FROM student_courses sc WHERE sc.course_id = c.id), '{}')
	FROM courses c`

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.DepartmentID, &c.TeacherID, &c.EnrolledStudentIDs); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAll retrieves all courses with their enrolled student ids
func (r *CourseRepository) FindAll(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, courseSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// FindByID retrieves a course by ID. It returns nil when no row matches.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// Save inserts a course without an ID, otherwise updates it in place
func (r *CourseRepository) Save(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO courses (code, name, description, department_id, teacher_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			course.Code, course.Name, course.Description, course.DepartmentID, course.TeacherID,
		).Scan(&course.ID)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return nil, apperrors.NewResourceNotFoundError("course references a missing department or teacher")
			}
			return nil, fmt.Errorf("error creating course: %w", err)
		}
		course.EnrolledStudentIDs = []int64{}
		return course, nil
	}

	var enrolled []int64
	err := r.db.QueryRow(ctx, `
		UPDATE courses
		SET code = $1, name = $2, description = $3, department_id = $4, teacher_id = $5
		WHERE id = $6
		RETURNING COALESCE((SELECT array_agg(sc.student_id ORDER BY sc.student_id)
			FROM student_courses sc WHERE sc.course_id = courses.id), '{}')`,
		course.Code, course.Name, course.Description, course.DepartmentID, course.TeacherID, course.ID,
	).Scan(&enrolled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("course references a missing department or teacher")
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	course.EnrolledStudentIDs = enrolled

	return course, nil
}

// DeleteByID deletes a course and its enrolments. Deleting a missing course is a no-op.
func (r *CourseRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}
